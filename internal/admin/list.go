package admin

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/cms/internal/cms"
)

// LoadState describes where the list controller is in its fetch cycle.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateLoaded
	StateError
)

// CustomerLister is the slice of the API the list controller needs.
type CustomerLister interface {
	ListCustomers(ctx context.Context, page, size int, sortBy, sortDir string) (*cms.Page[cms.Customer], error)
	SearchCustomers(ctx context.Context, keyword string, page, size int) (*cms.Page[cms.Customer], error)
	DeleteCustomer(ctx context.Context, id int64) error
}

// MasterDataReader fetches the read-only reference data for the view.
type MasterDataReader interface {
	Countries(ctx context.Context) ([]cms.Country, error)
	Cities(ctx context.Context) ([]cms.City, error)
}

// ListController owns the paginated customer list: current page, active
// search keyword, loading state, and the reference data the edit dialog
// needs. It runs on a single logical thread; the per-load sequence counter
// exists so a response that arrives after a newer request was issued is
// discarded instead of overwriting fresher state.
type ListController struct {
	api    CustomerLister
	master MasterDataReader
	notify Notifier
	logger zerolog.Logger

	pageSize    int
	state       LoadState
	loadedOnce  bool
	customers   []cms.Customer
	currentPage int
	totalPages  int
	keyword     string
	seq         uint64

	countries []cms.Country
	cities    []cms.City

	// Confirm gates destructive actions. The CLI wires an interactive
	// prompt; tests substitute a canned answer.
	Confirm func(prompt string) bool
}

func NewListController(api CustomerLister, master MasterDataReader, notify Notifier, logger zerolog.Logger, pageSize int) *ListController {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &ListController{
		api:      api,
		master:   master,
		notify:   notify,
		logger:   logger,
		pageSize: pageSize,
		state:    StateIdle,
		Confirm:  func(string) bool { return true },
	}
}

func (l *ListController) State() LoadState { return l.state }

func (l *ListController) Customers() []cms.Customer { return l.customers }

func (l *ListController) CurrentPage() int { return l.currentPage }

func (l *ListController) TotalPages() int { return l.totalPages }

func (l *ListController) Keyword() string { return l.keyword }

func (l *ListController) Countries() []cms.Country { return l.countries }

func (l *ListController) Cities() []cms.City { return l.cities }

// CanPrev reports whether a previous page exists.
func (l *ListController) CanPrev() bool { return l.currentPage > 0 }

// CanNext reports whether a next page exists.
func (l *ListController) CanNext() bool { return l.currentPage < l.totalPages-1 }

// Mount performs the initial view load: the first customer page and the
// reference data, fetched concurrently. A reference-data failure is notified
// and logged but never blocks the list from rendering.
func (l *ListController) Mount(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.load(gctx)
		return nil
	})
	g.Go(func() error {
		l.loadMasterData(gctx)
		return nil
	})

	g.Wait()
}

func (l *ListController) loadMasterData(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		countries, err := l.master.Countries(gctx)
		if err != nil {
			return err
		}
		l.countries = countries
		return nil
	})
	g.Go(func() error {
		cities, err := l.master.Cities(gctx)
		if err != nil {
			return err
		}
		l.cities = cities
		return nil
	})

	if err := g.Wait(); err != nil {
		l.logger.Warn().Err(err).Msg("failed to load master data")
		l.notify.Warn("Failed to load countries and cities")
	}
}

// load fetches the current page, using search when a keyword is active.
// On failure the previous content is kept and a notification is raised.
func (l *ListController) load(ctx context.Context) {
	l.seq++
	seq := l.seq
	l.state = StateLoading

	var (
		page *cms.Page[cms.Customer]
		err  error
	)
	if l.keyword != "" {
		page, err = l.api.SearchCustomers(ctx, l.keyword, l.currentPage, l.pageSize)
	} else {
		page, err = l.api.ListCustomers(ctx, l.currentPage, l.pageSize, "id", "ASC")
	}

	if seq != l.seq {
		// A newer load was issued while this one was pending.
		l.logger.Debug().Uint64("seq", seq).Msg("discarding stale list response")
		return
	}

	if err != nil {
		l.logger.Warn().Err(err).Int("page", l.currentPage).Msg("failed to load customers")
		if l.keyword != "" {
			l.notify.Error("Search failed")
		} else {
			l.notify.Error("Failed to load customers")
		}
		if l.loadedOnce {
			l.state = StateLoaded
		} else {
			l.state = StateError
		}
		return
	}

	l.customers = page.Content
	l.totalPages = page.TotalPages
	l.state = StateLoaded
	l.loadedOnce = true
}

// SetPage moves to a page and reloads. Negative pages are ignored.
func (l *ListController) SetPage(ctx context.Context, page int) {
	if page < 0 {
		return
	}
	l.currentPage = page
	l.load(ctx)
}

// NextPage advances one page when one exists.
func (l *ListController) NextPage(ctx context.Context) {
	if !l.CanNext() {
		return
	}
	l.SetPage(ctx, l.currentPage+1)
}

// PrevPage steps back one page when one exists.
func (l *ListController) PrevPage(ctx context.Context) {
	if !l.CanPrev() {
		return
	}
	l.SetPage(ctx, l.currentPage-1)
}

// Search activates a keyword filter. A blank or whitespace keyword clears
// the filter and reloads the unfiltered list at the current page.
func (l *ListController) Search(ctx context.Context, keyword string) {
	l.keyword = strings.TrimSpace(keyword)
	l.load(ctx)
}

// Refresh reloads the current page with the active keyword.
func (l *ListController) Refresh(ctx context.Context) {
	l.load(ctx)
}

// Delete confirms, deletes, and reloads the current page. There is no
// optimistic row removal; a page left empty by deleting its last row is not
// stepped back automatically.
func (l *ListController) Delete(ctx context.Context, id int64) {
	if !l.Confirm("Are you sure you want to delete this customer?") {
		return
	}

	if err := l.api.DeleteCustomer(ctx, id); err != nil {
		l.logger.Warn().Err(err).Int64("customer_id", id).Msg("failed to delete customer")
		l.notify.Error("Failed to delete customer")
		return
	}

	l.notify.Success("Customer deleted successfully")
	l.load(ctx)
}
