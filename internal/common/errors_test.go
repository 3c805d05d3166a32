package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteErrorAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NotFound("reservation not found"))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "NOT_FOUND", body.Error.Code)
	require.Equal(t, "reservation not found", body.Error.Message)
}

func TestWriteErrorValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ValidationFailed(map[string]string{"paymentMethod": "required"}))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), `"paymentMethod":"required"`)
}

func TestWriteErrorPlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("bad input"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "BAD_REQUEST")
}

func TestValidateStructFieldNames(t *testing.T) {
	type form struct {
		GuestName   string  `validate:"required"`
		DefaultRate float64 `validate:"gte=0"`
	}
	fields := ValidateStruct(form{DefaultRate: -1})
	require.Equal(t, "required", fields["guestName"])
	require.Equal(t, "gte", fields["defaultRate"])

	require.Nil(t, ValidateStruct(form{GuestName: "Asha", DefaultRate: 0}))
}
