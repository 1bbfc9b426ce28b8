package admin

import (
	"context"
	"io"
	"sync"

	"github.com/edvin/cms/internal/cms"
)

// recorder captures notifications for assertions. Mount fetches
// concurrently, so appends are locked.
type recorder struct {
	mu        sync.Mutex
	successes []string
	warns     []string
	errors    []string
}

func (r *recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *recorder) Warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, msg)
}

func (r *recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

// fakeAPI is a hand-rolled test double for the API slices the controllers
// consume. Only the fields a test sets are meaningful.
type fakeAPI struct {
	listPage  *cms.Page[cms.Customer]
	listErr   error
	listCalls int
	// onList runs inside ListCustomers before returning, letting tests
	// interleave a competing load.
	onList func()

	searchPage    *cms.Page[cms.Customer]
	searchErr     error
	searchCalls   int
	searchKeyword string

	deleteErr   error
	deleteCalls int
	deletedID   int64

	getCustomer *cms.Customer
	getErr      error

	created   *cms.Customer
	createErr error
	updated   *cms.Customer
	updatedID int64
	updateErr error

	importResult *cms.ImportResult
	importErr    error
	importCalls  int
	importedFile string

	exportData  []byte
	exportName  string
	exportErr   error
	exportCalls int

	countries    []cms.Country
	countriesErr error
	cities       []cms.City
	citiesErr    error
}

func (f *fakeAPI) ListCustomers(ctx context.Context, page, size int, sortBy, sortDir string) (*cms.Page[cms.Customer], error) {
	f.listCalls++
	if f.onList != nil {
		hook := f.onList
		f.onList = nil
		hook()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listPage != nil {
		return f.listPage, nil
	}
	return &cms.Page[cms.Customer]{Content: []cms.Customer{}, TotalPages: 0}, nil
}

func (f *fakeAPI) SearchCustomers(ctx context.Context, keyword string, page, size int) (*cms.Page[cms.Customer], error) {
	f.searchCalls++
	f.searchKeyword = keyword
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.searchPage != nil {
		return f.searchPage, nil
	}
	return &cms.Page[cms.Customer]{Content: []cms.Customer{}, TotalPages: 0}, nil
}

func (f *fakeAPI) DeleteCustomer(ctx context.Context, id int64) error {
	f.deleteCalls++
	f.deletedID = id
	return f.deleteErr
}

func (f *fakeAPI) GetCustomer(ctx context.Context, id int64) (*cms.Customer, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getCustomer, nil
}

func (f *fakeAPI) CreateCustomer(ctx context.Context, cust *cms.Customer) (*cms.Customer, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = cust
	stored := *cust
	stored.ID = 1001
	return &stored, nil
}

func (f *fakeAPI) UpdateCustomer(ctx context.Context, id int64, cust *cms.Customer) (*cms.Customer, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = cust
	f.updatedID = id
	stored := *cust
	stored.ID = id
	return &stored, nil
}

func (f *fakeAPI) ImportCustomers(ctx context.Context, filename string, r io.Reader) (*cms.ImportResult, error) {
	f.importCalls++
	f.importedFile = filename
	if f.importErr != nil {
		return nil, f.importErr
	}
	return f.importResult, nil
}

func (f *fakeAPI) ExportCustomers(ctx context.Context) ([]byte, string, error) {
	f.exportCalls++
	if f.exportErr != nil {
		return nil, "", f.exportErr
	}
	return f.exportData, f.exportName, nil
}

func (f *fakeAPI) Countries(ctx context.Context) ([]cms.Country, error) {
	if f.countriesErr != nil {
		return nil, f.countriesErr
	}
	return f.countries, nil
}

func (f *fakeAPI) Cities(ctx context.Context) ([]cms.City, error) {
	if f.citiesErr != nil {
		return nil, f.citiesErr
	}
	return f.cities, nil
}
