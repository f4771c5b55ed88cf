package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/raf-advanced/maintenance-api/app/dto"
	businessflow "github.com/raf-advanced/maintenance-api/business_flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMaintenanceFlow lets each test script the flow outcome
type stubMaintenanceFlow struct {
	submitResp *dto.SubmitMaintenanceResponse
	submitErr  error
	getResp    *dto.GetMaintenanceRequestResponse
	getErr     error
	listResp   *dto.ListMaintenanceRequestsResponse
	listErr    error
	exportName string
	exportData []byte
	exportErr  error

	lastSubmit *dto.SubmitMaintenanceRequest
}

func (s *stubMaintenanceFlow) SubmitRequest(ctx context.Context, req *dto.SubmitMaintenanceRequest, metadata *businessflow.ClientMetadata) (*dto.SubmitMaintenanceResponse, error) {
	s.lastSubmit = req
	return s.submitResp, s.submitErr
}

func (s *stubMaintenanceFlow) GetByOrderCode(ctx context.Context, orderCode string) (*dto.GetMaintenanceRequestResponse, error) {
	return s.getResp, s.getErr
}

func (s *stubMaintenanceFlow) ListRequests(ctx context.Context, req *dto.ListMaintenanceRequestsRequest) (*dto.ListMaintenanceRequestsResponse, error) {
	return s.listResp, s.listErr
}

func (s *stubMaintenanceFlow) ExportRequestsExcel(ctx context.Context, req *dto.ListMaintenanceRequestsRequest) (string, []byte, error) {
	return s.exportName, s.exportData, s.exportErr
}

func newSubmitApp(flow businessflow.MaintenanceFlow) *fiber.App {
	app := fiber.New()
	h := NewMaintenanceHandler(flow)
	app.Post("/api/maintenance", h.Submit)
	app.Get("/api/v1/admin/maintenance/:orderCode", h.Get)
	app.Post("/api/v1/admin/maintenance/list", h.List)
	app.Post("/api/v1/admin/maintenance/export", h.Export)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func validForm() map[string]string {
	return map[string]string{
		"name":             "Saleh Alqahtani",
		"numberOfFloors":   "3",
		"phoneNumber":      "+966512345678",
		"numberOfProjects": "A12",
		"numberOfFlats":    "12",
		"address":          "King Fahd Road, Riyadh",
		"details":          "Water leakage in the bathroom ceiling",
	}
}

func TestSubmit_Success(t *testing.T) {
	flow := &stubMaintenanceFlow{
		submitResp: &dto.SubmitMaintenanceResponse{
			Success:   true,
			OrderCode: "100",
			Message:   "Maintenance request submitted successfully",
		},
	}
	app := newSubmitApp(flow)

	resp := postJSON(t, app, "/api/maintenance", validForm())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Flat payload: orderCode at the top level, no data envelope
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "100", body["orderCode"])
	assert.Equal(t, "Maintenance request submitted successfully", body["message"])
	_, hasData := body["data"]
	assert.False(t, hasData)

	require.NotNil(t, flow.lastSubmit)
	assert.Equal(t, "Saleh Alqahtani", flow.lastSubmit.Name)
}

func TestSubmit_MissingField(t *testing.T) {
	for _, field := range []string{"name", "numberOfFloors", "phoneNumber", "numberOfProjects", "numberOfFlats", "address", "details"} {
		t.Run(field, func(t *testing.T) {
			flow := &stubMaintenanceFlow{}
			app := newSubmitApp(flow)

			form := validForm()
			delete(form, field)
			resp := postJSON(t, app, "/api/maintenance", form)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "All fields are required", body["message"])

			// Validation rejects the request before the flow runs
			assert.Nil(t, flow.lastSubmit)
		})
	}
}

func TestSubmit_BlankFieldRejectedByFlow(t *testing.T) {
	flow := &stubMaintenanceFlow{submitErr: businessflow.ErrAllFieldsRequired}
	app := newSubmitApp(flow)

	form := validForm()
	form["name"] = "   "
	resp := postJSON(t, app, "/api/maintenance", form)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "All fields are required", body["message"])
}

func TestSubmit_FlowFailure(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"allocation", businessflow.NewBusinessError(businessflow.CodeAllocationFailed, "Failed to allocate order number", errors.New("db down"))},
		{"persistence", businessflow.NewBusinessError(businessflow.CodePersistenceFailed, "Failed to store maintenance request", errors.New("db down"))},
		{"notification", businessflow.NewBusinessError(businessflow.CodeNotificationFailed, "Failed to send notification email", errors.New("smtp down"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newSubmitApp(&stubMaintenanceFlow{submitErr: tc.err})

			resp := postJSON(t, app, "/api/maintenance", validForm())
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

			// Stage codes never leak into the public payload
			body := decodeBody(t, resp)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "Failed to process maintenance request. Please try again later.", body["message"])
		})
	}
}

func TestSubmit_MalformedBody(t *testing.T) {
	app := newSubmitApp(&stubMaintenanceFlow{})

	req := httptest.NewRequest(http.MethodPost, "/api/maintenance", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Failed to process maintenance request. Please try again later.", body["message"])
}

func TestGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		flow := &stubMaintenanceFlow{
			getResp: &dto.GetMaintenanceRequestResponse{
				Message: "Maintenance request retrieved successfully",
				Item:    dto.MaintenanceRequestItem{OrderCode: "104", Name: "Saleh Alqahtani"},
			},
		}
		app := newSubmitApp(flow)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/maintenance/104", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])
	})

	t.Run("invalid order code", func(t *testing.T) {
		app := newSubmitApp(&stubMaintenanceFlow{getErr: businessflow.ErrInvalidOrderCode})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/maintenance/abc", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		app := newSubmitApp(&stubMaintenanceFlow{getErr: businessflow.ErrRequestNotFound})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/maintenance/999", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestList(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		flow := &stubMaintenanceFlow{
			listResp: &dto.ListMaintenanceRequestsResponse{
				Message: "Maintenance requests retrieved successfully",
				Total:   1,
				Items:   []dto.MaintenanceRequestItem{{OrderCode: "100"}},
			},
		}
		app := newSubmitApp(flow)

		resp := postJSON(t, app, "/api/v1/admin/maintenance/list", map[string]any{"page": 1})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])
	})

	t.Run("invalid date range", func(t *testing.T) {
		app := newSubmitApp(&stubMaintenanceFlow{listErr: businessflow.ErrStartDateAfterEndDate})
		resp := postJSON(t, app, "/api/v1/admin/maintenance/list", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestExport(t *testing.T) {
	flow := &stubMaintenanceFlow{
		exportName: "maintenance_requests_20260827_113000.xlsx",
		exportData: []byte{'P', 'K', 3, 4},
	}
	app := newSubmitApp(flow)

	resp := postJSON(t, app, "/api/v1/admin/maintenance/export", map[string]any{})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), flow.exportName)

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, flow.exportData, data)
}
