package user

import (
	"net/http"

	"github.com/gearshare/gearshare-backend/internal/pkg/apperror"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailExists = apperror.New(http.StatusConflict, "email already exists")
	ErrNameBlank   = apperror.New(http.StatusBadRequest, "name must not be blank")
	ErrEmailBlank  = apperror.New(http.StatusBadRequest, "email must not be blank")
)

type User struct {
	ID    int64
	Name  string
	Email string
}
