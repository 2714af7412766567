package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/lead-scorer/internal/leads"
	"github.com/spigell/lead-scorer/internal/logger"
	"github.com/spigell/lead-scorer/internal/notify"
	"github.com/spigell/lead-scorer/internal/scoring"
)

const (
	// DefaultID is used when the caller does not name a session.
	DefaultID = "default"

	exportPrefix = "scored_results"

	collaboratorDecoder  = "csv decoder"
	collaboratorIntent   = "intent scorer"
	collaboratorNotifier = "notification webhook"
	collaboratorStorage  = "export storage"
)

var idRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Codec converts lead and result documents.
type Codec interface {
	DecodeLeads(r io.Reader) ([]*leads.Lead, error)
	EncodeResults(w io.Writer, results []leads.ScoredLead) error
}

// Config holds coordinator settings.
type Config struct {
	StorageDir string
}

// Deps aggregates collaborators shared by every session.
type Deps struct {
	Scorer   *scoring.Scorer
	Codec    Codec
	Notifier notify.Sink
	Logger   *zap.Logger
}

// Coordinator owns every session and hands them out by id.
type Coordinator struct {
	mu       sync.Mutex
	sessions map[string]*Session
	config   Config
	deps     Deps
}

func NewCoordinator(cfg *Config, deps *Deps) (*Coordinator, error) {
	if deps == nil || deps.Scorer == nil {
		return nil, errors.New("scorer is required")
	}
	if deps.Codec == nil {
		return nil, errors.New("codec is required")
	}

	c := &Coordinator{
		sessions: make(map[string]*Session),
		deps:     *deps,
	}
	if cfg != nil {
		c.config = *cfg
	}
	if c.config.StorageDir == "" {
		c.config.StorageDir = os.TempDir()
	}
	if c.deps.Logger == nil {
		c.deps.Logger = zap.NewNop()
	}

	return c, nil
}

// Get returns the session with the given id, creating it on first use.
// An empty id selects DefaultID.
func (c *Coordinator) Get(id string) (*Session, error) {
	if id == "" {
		id = DefaultID
	}
	if !idRe.MatchString(id) {
		return nil, validationError(fmt.Errorf("session id %q must match %s", id, idRe.String()))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.sessions[id]; ok {
		return s, nil
	}

	s := &Session{
		id:     id,
		config: c.config,
		deps:   c.deps,
		logger: logger.With(c.deps.Logger, zap.String(logger.FieldSession, id)),
	}
	c.sessions[id] = s

	return s, nil
}

// New creates a session with a random id.
func (c *Coordinator) New() *Session {
	s, _ := c.Get(uuid.NewString())
	return s
}

func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// Scorer exposes the shared scorer for status reporting.
func (c *Coordinator) Scorer() *scoring.Scorer {
	return c.deps.Scorer
}

// Session holds one offer, one lead collection and the latest results.
// Every operation replaces state wholesale and only after it succeeds.
type Session struct {
	id     string
	config Config
	deps   Deps
	logger *zap.Logger

	mu      sync.RWMutex
	offer   *leads.Offer
	leads   []*leads.Lead
	results []leads.ScoredLead
}

// State is a read-only view of what a session holds.
type State struct {
	ID       string `json:"session_id"`
	HasOffer bool   `json:"has_offer"`
	Leads    int    `json:"leads"`
	Results  int    `json:"results"`
	Scored   bool   `json:"scored"`
}

// Summary is the outcome of the summarize operation.
type Summary struct {
	Text string
	Top  []leads.ScoredLead
	Sent bool
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State{
		ID:       s.id,
		HasOffer: s.offer != nil,
		Leads:    len(s.leads),
		Results:  len(s.results),
		Scored:   s.results != nil,
	}
}

// SetOffer validates and stores the offer, replacing any previous one.
func (s *Session) SetOffer(offer *leads.Offer) (*leads.Offer, error) {
	if err := offer.Validate(); err != nil {
		return nil, validationError(err)
	}

	stored := offer.Clone()

	s.mu.Lock()
	s.offer = stored
	s.mu.Unlock()

	s.logger.Info("offer saved",
		zap.String("offer", stored.Name),
		zap.Int("value_props", len(stored.ValueProps)),
		zap.Int("ideal_use_cases", len(stored.IdealUseCases)),
	)

	return stored.Clone(), nil
}

// UploadLeads decodes a lead document and replaces the current collection.
func (s *Session) UploadLeads(r io.Reader) (int, error) {
	if r == nil {
		return 0, validationError(errors.New("csv file is required"))
	}

	items, err := s.deps.Codec.DecodeLeads(r)
	if err != nil {
		s.logger.Warn("decoding leads failed", zap.Error(err))
		return 0, collaboratorError(collaboratorDecoder, err)
	}

	s.mu.Lock()
	s.leads = items
	s.mu.Unlock()

	s.logger.Info("leads uploaded", zap.Int("count", len(items)))

	return len(items), nil
}

// Run scores the current leads against the current offer and stores the results.
func (s *Session) Run(ctx context.Context) ([]leads.ScoredLead, error) {
	s.mu.RLock()
	offer := s.offer.Clone()
	items := slices.Clone(s.leads)
	s.mu.RUnlock()

	if offer == nil {
		return nil, ErrNoOffer
	}
	if len(items) == 0 {
		return nil, ErrNoLeads
	}

	results, err := s.deps.Scorer.Score(ctx, offer, items)
	if err != nil {
		s.logger.Warn("scoring failed", zap.Error(err))
		return nil, collaboratorError(collaboratorIntent, err)
	}

	s.mu.Lock()
	s.results = results
	s.mu.Unlock()

	s.logger.Info("scoring complete",
		zap.String("offer", offer.Name),
		zap.Int("scored", len(results)),
	)

	return slices.Clone(results), nil
}

// Results returns the latest scoring results.
func (s *Session) Results() ([]leads.ScoredLead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.results == nil {
		return nil, ErrNoResults
	}
	return slices.Clone(s.results), nil
}

// Export writes the latest results to a CSV file in the storage directory and
// returns its path. Later exports overwrite the file.
func (s *Session) Export() (string, error) {
	results, err := s.scoredResults()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.config.StorageDir, 0o755); err != nil {
		return "", collaboratorError(collaboratorStorage, err)
	}

	tmp, err := os.CreateTemp(s.config.StorageDir, exportPrefix+"-*.csv.tmp")
	if err != nil {
		return "", collaboratorError(collaboratorStorage, err)
	}
	defer os.Remove(tmp.Name())

	if err := s.deps.Codec.EncodeResults(tmp, results); err != nil {
		tmp.Close()
		return "", collaboratorError(collaboratorStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return "", collaboratorError(collaboratorStorage, err)
	}

	path := filepath.Join(s.config.StorageDir, fmt.Sprintf("%s-%s.csv", exportPrefix, s.id))
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", collaboratorError(collaboratorStorage, err)
	}

	s.logger.Info("results exported", zap.String("path", path), zap.Int("rows", len(results)))

	return path, nil
}

// Summarize builds the top leads report and forwards it when a notifier is configured.
func (s *Session) Summarize(ctx context.Context) (*Summary, error) {
	results, err := s.scoredResults()
	if err != nil {
		return nil, err
	}

	top := scoring.Top(results, scoring.DefaultTop)
	summary := &Summary{
		Text: scoring.Summary(top),
		Top:  top,
	}

	if s.deps.Notifier == nil {
		s.logger.Info("summary generated", zap.Int("top", len(top)), zap.Bool("sent", false))
		return summary, nil
	}

	if err := s.deps.Notifier.Send(ctx, summary.Text); err != nil {
		s.logger.Warn("sending summary failed", zap.Error(err))
		return nil, collaboratorError(collaboratorNotifier, err)
	}
	summary.Sent = true

	s.logger.Info("summary generated", zap.Int("top", len(top)), zap.Bool("sent", true))

	return summary, nil
}

// NotifyTop posts the top leads to the notifier. A missing notifier is an error.
func (s *Session) NotifyTop(ctx context.Context) ([]leads.ScoredLead, error) {
	results, err := s.scoredResults()
	if err != nil {
		return nil, err
	}

	if s.deps.Notifier == nil {
		return nil, collaboratorError(collaboratorNotifier, ErrNotifierNotConfigured)
	}

	top := scoring.Top(results, scoring.DefaultTop)
	if err := s.deps.Notifier.Send(ctx, scoring.Announcement(top)); err != nil {
		s.logger.Warn("posting top leads failed", zap.Error(err))
		return nil, collaboratorError(collaboratorNotifier, err)
	}

	s.logger.Info("posted top leads", zap.Strings("leads", (&leads.Results{Items: top}).Names()))

	return top, nil
}

func (s *Session) scoredResults() ([]leads.ScoredLead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.results) == 0 {
		return nil, ErrNoResults
	}
	return slices.Clone(s.results), nil
}
