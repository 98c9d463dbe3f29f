package httperr

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, handler fiber.Handler) (int, map[string]any) {
	t.Helper()

	app := fiber.New(fiber.Config{ErrorHandler: Handler})
	app.Get("/boom", handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func TestHandlerRendersFailForClientErrors(t *testing.T) {
	status, parsed := doRequest(t, func(c *fiber.Ctx) error {
		return Fail(E{Status: 404, Message: "tour not found"})
	})

	assert.Equal(t, 404, status)
	assert.Equal(t, "fail", parsed["status"])
	assert.Equal(t, "tour not found", parsed["message"])
}

func TestHandlerRendersErrorForServerErrors(t *testing.T) {
	status, parsed := doRequest(t, func(c *fiber.Ctx) error {
		return Fail(InternalError("something went very wrong"))
	})

	assert.Equal(t, 500, status)
	assert.Equal(t, "error", parsed["status"])
	assert.Equal(t, "something went very wrong", parsed["message"])
}

func TestHandlerTranslatesFiberErrors(t *testing.T) {
	status, parsed := doRequest(t, func(c *fiber.Ctx) error {
		return fiber.ErrMethodNotAllowed
	})

	assert.Equal(t, 405, status)
	assert.Equal(t, "fail", parsed["status"])
}

func TestHandlerMasksUnknownErrors(t *testing.T) {
	status, parsed := doRequest(t, func(c *fiber.Ctx) error {
		return assert.AnError
	})

	assert.Equal(t, 500, status)
	assert.Equal(t, "error", parsed["status"])
	assert.Equal(t, "Internal Server Error", parsed["message"])
}

func TestHandlerSurfacesUnknownErrorsWithDebugDetail(t *testing.T) {
	SetDebugDetail(true)
	t.Cleanup(func() { SetDebugDetail(false) })

	status, parsed := doRequest(t, func(c *fiber.Ctx) error {
		return assert.AnError
	})

	assert.Equal(t, 500, status)
	assert.Equal(t, "error", parsed["status"])
	assert.Equal(t, assert.AnError.Error(), parsed["message"])
}
