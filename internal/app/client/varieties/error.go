package varieties

import (
	"errors"

	"grapetracker/internal/domain/variety"
)

var (
	ErrNameRequired     = variety.ErrNameRequired
	ErrSubmitting       = errors.New("submission already in progress")
	ErrCreateFailed     = errors.New("create variety failed")
	ErrDeleteCancelled  = errors.New("delete cancelled")
	ErrPermissionDenied = errors.New("delete not permitted")
	ErrDeleteFailed     = errors.New("delete variety failed")
)

// Тексты, которые видит пользователь
const (
	MsgNameRequired     = "Name is required."
	MsgCreateFailed     = "Error creating variety."
	MsgPermissionDenied = "You do not have permission to delete this item."
	MsgDeleteFailed     = "Error deleting variety."
	MsgConfirmDelete    = "Are you sure you want to delete this variety?"
	MsgEmpty            = "No varieties added yet. Use the form to add your first one!"
	MsgLoading          = "Loading varieties..."
)

// Message returns the user-facing text for an error returned by the view.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNameRequired):
		return MsgNameRequired
	case errors.Is(err, ErrCreateFailed):
		return MsgCreateFailed
	case errors.Is(err, ErrPermissionDenied):
		return MsgPermissionDenied
	case errors.Is(err, ErrDeleteFailed):
		return MsgDeleteFailed
	}
	return err.Error()
}
