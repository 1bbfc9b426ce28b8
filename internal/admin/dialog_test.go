package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/cms/internal/cms"
)

func newDialogs(api *fakeAPI, notify Notifier) *Dialogs {
	form := NewForm(api, notify, zerolog.Nop())
	return NewDialogs(api, form, notify, zerolog.Nop())
}

func TestDialogs_OpenCreateStartsFresh(t *testing.T) {
	d := newDialogs(&fakeAPI{}, &recorder{})

	d.Form().SetDraft(validDraft())
	d.OpenCreate()

	assert.True(t, d.EditOpen())
	assert.False(t, d.Form().Editing())
	assert.Empty(t, d.Form().Draft().FirstName, "stale draft is discarded")
}

func TestDialogs_OpenEditSeedsDraft(t *testing.T) {
	d := newDialogs(&fakeAPI{}, &recorder{})

	d.OpenEdit(&cms.Customer{ID: 42, FirstName: "Amara"})

	assert.True(t, d.EditOpen())
	assert.True(t, d.Form().Editing())
	assert.Equal(t, "Amara", d.Form().Draft().FirstName)
}

func TestDialogs_CloseEditDiscardsDraft(t *testing.T) {
	d := newDialogs(&fakeAPI{}, &recorder{})

	d.OpenEdit(&cms.Customer{ID: 42, FirstName: "Amara"})
	d.CloseEdit()

	assert.False(t, d.EditOpen())
	assert.False(t, d.Form().Editing())
	assert.Empty(t, d.Form().Draft().FirstName)
}

func TestDialogs_OpenDetailFetchesOnDemand(t *testing.T) {
	api := &fakeAPI{getCustomer: &cms.Customer{ID: 7, FirstName: "Nuwan"}}
	d := newDialogs(api, &recorder{})

	d.OpenDetail(context.Background(), 7)

	assert.True(t, d.DetailOpen())
	require.NotNil(t, d.Detail())
	assert.Equal(t, "Nuwan", d.Detail().FirstName)

	d.CloseDetail()
	assert.False(t, d.DetailOpen())
	assert.Nil(t, d.Detail())
}

func TestDialogs_OpenDetailFailureStaysClosed(t *testing.T) {
	api := &fakeAPI{getErr: errors.New("boom")}
	notify := &recorder{}
	d := newDialogs(api, notify)

	d.OpenDetail(context.Background(), 7)

	assert.False(t, d.DetailOpen())
	require.Len(t, notify.errors, 1)
}
