package admin

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/edvin/cms/internal/cms"
)

// CustomerReader fetches a single customer for the detail dialog.
type CustomerReader interface {
	GetCustomer(ctx context.Context, id int64) (*cms.Customer, error)
}

// Dialogs holds the view state of the two independent dialogs on the
// customer screen: the create/edit form dialog and the read-only detail
// dialog. Closing either discards its uncommitted state.
type Dialogs struct {
	api    CustomerReader
	notify Notifier
	logger zerolog.Logger

	form     *Form
	editOpen bool

	detail     *cms.Customer
	detailOpen bool
}

func NewDialogs(api CustomerReader, form *Form, notify Notifier, logger zerolog.Logger) *Dialogs {
	return &Dialogs{api: api, form: form, notify: notify, logger: logger}
}

func (d *Dialogs) Form() *Form { return d.form }

func (d *Dialogs) EditOpen() bool { return d.editOpen }

func (d *Dialogs) DetailOpen() bool { return d.detailOpen }

func (d *Dialogs) Detail() *cms.Customer { return d.detail }

// OpenCreate opens the form dialog with a fresh draft.
func (d *Dialogs) OpenCreate() {
	d.form.Reset()
	d.editOpen = true
}

// OpenEdit opens the form dialog seeded from an existing customer.
func (d *Dialogs) OpenEdit(c *cms.Customer) {
	d.form.Load(c)
	d.editOpen = true
}

// CloseEdit closes the form dialog and discards the draft.
func (d *Dialogs) CloseEdit() {
	d.editOpen = false
	d.form.Reset()
}

// OpenDetail fetches the customer on demand and opens the read-only dialog.
// On failure the dialog stays closed and a notification is raised.
func (d *Dialogs) OpenDetail(ctx context.Context, id int64) {
	cust, err := d.api.GetCustomer(ctx, id)
	if err != nil {
		d.logger.Warn().Err(err).Int64("customer_id", id).Msg("failed to load customer details")
		d.notify.Error("Failed to load customer details")
		return
	}
	d.detail = cust
	d.detailOpen = true
}

// CloseDetail closes the detail dialog and drops the fetched record.
func (d *Dialogs) CloseDetail() {
	d.detailOpen = false
	d.detail = nil
}
