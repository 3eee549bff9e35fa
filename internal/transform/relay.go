package transform

import (
	"fmt"

	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
)

// Owner owns the dataset shown on the page.
type Owner interface {
	// Dataset returns the current read-only snapshot.
	Dataset() dataset.Snapshot
	// ChangeDataset replaces the dataset. It runs synchronously.
	ChangeDataset(*dataset.Dataset) error
}

// MutationError is returned when the owner rejects a dataset. The dialog stays open.
type MutationError struct {
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("apply dataset change: %v", e.Err)
}

// Unwrap exposes the owner's error.
func (e *MutationError) Unwrap() error {
	return e.Err
}

// MutationRelay propagates a dialog's dataset to the owner and closes the dialog.
type MutationRelay struct {
	owner      Owner
	controller *Controller
}

// NewMutationRelay returns a relay between owner and controller.
func NewMutationRelay(owner Owner, controller *Controller) *MutationRelay {
	return &MutationRelay{owner: owner, controller: controller}
}

// OnChangeDataset hands ds to the owner, then closes the active dialog. When
// the owner fails, the error is returned and the dialog is left open so the
// user can retry.
func (r *MutationRelay) OnChangeDataset(ds *dataset.Dataset) error {
	if err := r.owner.ChangeDataset(ds); err != nil {
		return &MutationError{Err: err}
	}
	r.controller.Close()
	return nil
}

// OnClose dismisses the active dialog without touching the dataset.
func (r *MutationRelay) OnClose() {
	r.controller.Close()
}
