package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/reelvoice/reelvoice/internal/domain"
)

// SimulatorConfig holds the simulator configuration
type SimulatorConfig struct {
	Port   int
	APIKey string
}

// Simulator is a local stand-in for the movie download manager API. It keeps
// a small provider catalogue and library in memory so the skill can be
// developed without a real downloader.
type Simulator struct {
	config *SimulatorConfig
	app    *fiber.App
	log    *zap.Logger

	mu      sync.Mutex
	library []domain.Movie
	catalog []domain.Candidate
}

// NewSimulator creates a movie manager simulator with a seeded catalogue
func NewSimulator(config *SimulatorConfig, log *zap.Logger) *Simulator {
	s := &Simulator{
		config: config,
		log:    log,
		catalog: []domain.Candidate{
			{ImdbID: "tt0083658", Titles: []string{"Blade Runner"}, Year: 1982},
			{ImdbID: "tt1856101", Titles: []string{"Blade Runner 2049"}, Year: 2017},
			{ImdbID: "tt0114369", Titles: []string{"Se7en", "Seven"}, Year: 1995},
			{ImdbID: "tt0055928", Titles: []string{"Dr. No", "Doctor No"}, Year: 1962},
			{ImdbID: "tt1375666", Titles: []string{"Inception"}, Year: 2010},
			{ImdbID: "tt0133093", Titles: []string{"The Matrix"}, Year: 1999},
		},
		library: []domain.Movie{
			{Title: "Inception", Status: domain.MovieStatusActive},
			{Title: "The Matrix", Status: domain.MovieStatusDone},
		},
	}

	app := fiber.New(fiber.Config{
		AppName:               "moviemanager-simulator",
		DisableStartupMessage: true,
	})

	api := app.Group("/api/:key", s.checkKey)
	api.Get("/app.available", s.handleAvailable)
	api.Get("/movie.list", s.handleList)
	api.Get("/movie.search", s.handleSearch)
	api.Get("/movie.add", s.handleAdd)

	s.app = app
	return s
}

// Start serves the API in the background
func (s *Simulator) Start() {
	addr := fmt.Sprintf(":%d", s.config.Port)
	go func() {
		if err := s.app.Listen(addr); err != nil {
			s.log.Fatal("Simulator server failed", zap.Error(err))
		}
	}()
	s.log.Info("Movie manager simulator listening", zap.String("addr", addr))
}

// Stop shuts the API down
func (s *Simulator) Stop() {
	if err := s.app.Shutdown(); err != nil {
		s.log.Warn("Simulator shutdown failed", zap.Error(err))
	}
}

func (s *Simulator) checkKey(c *fiber.Ctx) error {
	if c.Params("key") != s.config.APIKey {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false})
	}
	return c.Next()
}

func (s *Simulator) handleAvailable(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}

func (s *Simulator) handleList(c *fiber.Ctx) error {
	search := strings.ToLower(c.Query("search"))

	s.mu.Lock()
	defer s.mu.Unlock()

	movies := make([]domain.Movie, 0, len(s.library))
	for _, m := range s.library {
		if search == "" || strings.Contains(strings.ToLower(m.Title), search) {
			movies = append(movies, m)
		}
	}
	return c.JSON(fiber.Map{"movies": movies})
}

func (s *Simulator) handleSearch(c *fiber.Ctx) error {
	q := strings.ToLower(c.Query("q"))

	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]domain.Candidate, 0)
	for _, cand := range s.catalog {
		for _, title := range cand.Titles {
			if strings.Contains(strings.ToLower(title), q) {
				matches = append(matches, cand)
				break
			}
		}
	}
	return c.JSON(fiber.Map{"movies": matches})
}

func (s *Simulator) handleAdd(c *fiber.Ctx) error {
	id := c.Query("identifier")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cand := range s.catalog {
		if cand.ImdbID != id {
			continue
		}
		title := cand.CanonicalTitle()
		for _, m := range s.library {
			if m.Title == title {
				// Already added
				return c.JSON(fiber.Map{"success": false})
			}
		}
		s.library = append(s.library, domain.Movie{Title: title, Status: domain.MovieStatusActive})
		s.log.Info("Movie queued", zap.String("imdb", id), zap.String("title", title))
		return c.JSON(fiber.Map{"success": true})
	}
	return c.JSON(fiber.Map{"success": false})
}

// RunInteractive reads operator commands from stdin
func (s *Simulator) RunInteractive() {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "list":
			s.printLibrary()
		case "done":
			if len(fields) < 2 {
				fmt.Println("usage: done <title>")
				continue
			}
			s.markDone(strings.Join(fields[1:], " "))
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command: %s\n", fields[0])
		}
	}
}

func (s *Simulator) printLibrary() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.library) == 0 {
		fmt.Println("library is empty")
		return
	}
	for _, m := range s.library {
		fmt.Printf("  %-30s %s\n", m.Title, m.Status)
	}
}

// markDone flips a queued movie to downloaded, simulating a finished download
func (s *Simulator) markDone(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.library {
		if strings.EqualFold(m.Title, title) {
			s.library[i].Status = domain.MovieStatusDone
			fmt.Printf("%s marked as downloaded\n", s.library[i].Title)
			return
		}
	}
	fmt.Printf("no movie named %s in the library\n", title)
}
