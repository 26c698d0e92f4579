package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"procurement-app/models"
	"procurement-app/procurement/allocation"
	"procurement-app/procurement/status"
	"procurement-app/repositories"
	"procurement-app/services"
	"procurement-app/types"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeService struct {
	pr          *models.PurchaseRequest
	err         error
	gotActor    services.Actor
	gotStatus   services.ChangeStatusInput
	gotPreview  services.VerificationInput
	gotFilters  map[string]string
	transitions []status.Status
}

func (f *fakeService) List(_ context.Context, page, pageSize int, filters map[string]string) ([]models.PurchaseRequest, int64, error) {
	f.gotFilters = filters
	if f.err != nil {
		return nil, 0, f.err
	}
	return []models.PurchaseRequest{*f.pr}, 1, nil
}

func (f *fakeService) Get(context.Context, types.SnowflakeID) (*models.PurchaseRequest, error) {
	return f.pr, f.err
}

func (f *fakeService) Create(_ context.Context, actor services.Actor, in services.CreateInput) (*models.PurchaseRequest, error) {
	f.gotActor = actor
	return f.pr, f.err
}

func (f *fakeService) UpdateItems(_ context.Context, actor services.Actor, _ types.SnowflakeID, _ []services.ItemInput) (*models.PurchaseRequest, error) {
	f.gotActor = actor
	return f.pr, f.err
}

func (f *fakeService) Transitions(_ context.Context, actor services.Actor, _ types.SnowflakeID) ([]status.Status, error) {
	f.gotActor = actor
	return f.transitions, f.err
}

func (f *fakeService) Preview(_ context.Context, _ types.SnowflakeID, in services.VerificationInput) (*services.Preview, error) {
	f.gotPreview = in
	if f.err != nil {
		return nil, f.err
	}
	return &services.Preview{CanApprove: true, Blockers: []allocation.BlockedLine{}}, nil
}

func (f *fakeService) ChangeStatus(_ context.Context, actor services.Actor, _ types.SnowflakeID, in services.ChangeStatusInput) (*models.PurchaseRequest, error) {
	f.gotActor = actor
	f.gotStatus = in
	if f.err != nil {
		return nil, f.err
	}
	out := *f.pr
	out.Status = in.Status
	return &out, nil
}

func (f *fakeService) ExportAllocations(_ context.Context, _ types.SnowflakeID, w io.Writer) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	_, err := w.Write([]byte("xlsx"))
	return f.pr.Code, err
}

func (f *fakeService) AddReceipt(context.Context, services.Actor, types.SnowflakeID, services.ReceiptInput) (*models.Attachment, error) {
	return nil, f.err
}

func (f *fakeService) Receipts(context.Context, types.SnowflakeID) ([]models.Attachment, error) {
	return []models.Attachment{{ID: 5, FileName: "receipt.jpg"}}, f.err
}

func (f *fakeService) ReceiptURL(context.Context, models.Attachment) (string, error) {
	return "http://minio/receipt.jpg", nil
}

func (f *fakeService) History(context.Context, types.SnowflakeID) ([]models.TransactionHistory, error) {
	return nil, f.err
}

func newTestApp(svc *fakeService, role status.Role) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", float64(42))
		c.Locals("username", "tester")
		c.Locals("role", string(role))
		return c.Next()
	})
	pc := &PurchaseRequestController{
		NewService: func(*gorm.DB) PurchaseRequestService { return svc },
	}
	app.Get("/pr", pc.GetPurchaseRequests)
	app.Get("/pr/:id", pc.GetPurchaseRequestByID)
	app.Post("/pr", pc.CreatePurchaseRequest)
	app.Get("/pr/:id/transitions", pc.GetTransitions)
	app.Post("/pr/:id/preview", pc.PreviewAllocation)
	app.Put("/pr/:id/status", pc.ChangeStatus)
	app.Get("/pr/:id/export", pc.ExportAllocation)
	app.Get("/pr/:id/receipts", pc.GetReceipts)
	app.Post("/pr/:id/receipts", pc.UploadReceipt)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, url, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func samplePR() *models.PurchaseRequest {
	return &models.PurchaseRequest{ID: 1001, Code: "PR-2026-0001", Title: "Spare parts", Status: string(status.Submitted)}
}

func TestGetPurchaseRequests(t *testing.T) {
	svc := &fakeService{pr: samplePR()}
	app := newTestApp(svc, status.RoleRequester)

	code, body := doJSON(t, app, "GET", "/pr?status=SUBMITTED&mine=true", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 1, body["total"])
	assert.Equal(t, "SUBMITTED", svc.gotFilters["status"])
	assert.Equal(t, "42", svc.gotFilters["requester_id"])
}

func TestGetPurchaseRequestByID_InvalidID(t *testing.T) {
	app := newTestApp(&fakeService{pr: samplePR()}, status.RoleApprover)
	code, body := doJSON(t, app, "GET", "/pr/abc", "")
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
}

func TestCreatePurchaseRequest_Validation(t *testing.T) {
	app := newTestApp(&fakeService{pr: samplePR()}, status.RoleRequester)

	code, _ := doJSON(t, app, "POST", "/pr", `{"title":"Spare parts","items":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, body := doJSON(t, app, "POST", "/pr", `{"title":"Spare parts","items":[
		{"product_id":"7","product_name":"Bearing","quantity":"4","unit":"pcs","unit_price":"10","source_type":"STOCK_PICK"}]}`)
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "Purchase request PR-2026-0001 created", body["message"])
}

func TestChangeStatus(t *testing.T) {
	svc := &fakeService{pr: samplePR()}
	app := newTestApp(svc, status.RoleApprover)

	code, body := doJSON(t, app, "PUT", "/pr/1001/status", `{"status":"APPROVED","selections":{"L1":["WH-A"]}}`)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Purchase request PR-2026-0001 is now APPROVED", body["message"])
	assert.Equal(t, status.RoleApprover, svc.gotActor.Role)
	assert.EqualValues(t, 42, svc.gotActor.UserID)
	assert.Equal(t, []string{"WH-A"}, svc.gotStatus.Selections["L1"])

	code, _ = doJSON(t, app, "PUT", "/pr/1001/status", `{"note":"missing status"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestChangeStatus_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"incomplete", &allocation.IncompleteAllocationError{Lines: []allocation.BlockedLine{{LineID: "L1", Reason: allocation.ReasonNoWarehouse}}}, fiber.StatusUnprocessableEntity},
		{"transition", fmt.Errorf("approve: %w", status.ErrTransitionNotAllowed), fiber.StatusConflict},
		{"lost race", status.Conflict(status.Submitted, status.Approved), fiber.StatusConflict},
		{"duplicate code", repositories.ErrDuplicate, fiber.StatusConflict},
		{"role", status.ErrRoleNotAllowed, fiber.StatusForbidden},
		{"not found", repositories.ErrNotFound, fiber.StatusNotFound},
		{"unknown status", status.ErrUnknownStatus, fiber.StatusBadRequest},
		{"stock", &allocation.StockFetchError{LineID: "L1", Err: errors.New("timeout")}, fiber.StatusBadGateway},
		{"receipts off", services.ErrReceiptsDisabled, fiber.StatusServiceUnavailable},
		{"internal", errors.New("db down"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&fakeService{pr: samplePR(), err: tc.err}, status.RoleApprover)
			code, body := doJSON(t, app, "PUT", "/pr/1001/status", `{"status":"APPROVED"}`)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestChangeStatus_IncompleteListsLines(t *testing.T) {
	err := &allocation.IncompleteAllocationError{Lines: []allocation.BlockedLine{
		{LineID: "L1", ProductName: "Bearing", Reason: allocation.ReasonNoWarehouse},
	}}
	app := newTestApp(&fakeService{pr: samplePR(), err: err}, status.RoleApprover)

	_, body := doJSON(t, app, "PUT", "/pr/1001/status", `{"status":"APPROVED"}`)
	lines, ok := body["lines"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 1)
	assert.Equal(t, "L1", lines[0].(map[string]any)["line_id"])
}

func TestInternalErrorIsHidden(t *testing.T) {
	app := newTestApp(&fakeService{pr: samplePR(), err: errors.New("pq: password authentication failed")}, status.RoleApprover)
	_, body := doJSON(t, app, "GET", "/pr/1001", "")
	assert.Equal(t, "Internal server error", body["message"])
}

func TestGetTransitions(t *testing.T) {
	svc := &fakeService{pr: samplePR()}
	app := newTestApp(svc, status.RolePurchaser)

	code, body := doJSON(t, app, "GET", "/pr/1001/transitions", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, []any{}, body["data"])

	svc.transitions = []status.Status{status.Completed}
	_, body = doJSON(t, app, "GET", "/pr/1001/transitions", "")
	assert.Equal(t, []any{"COMPLETED"}, body["data"])
}

func TestPreviewAllocation(t *testing.T) {
	svc := &fakeService{pr: samplePR()}
	app := newTestApp(svc, status.RoleApprover)

	code, body := doJSON(t, app, "POST", "/pr/1001/preview", `{"selections":{"L1":["WH-A","WH-B"]},"overrides":{"L1":"45"}}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, body["data"].(map[string]any)["can_approve"])
	assert.Equal(t, []string{"WH-A", "WH-B"}, svc.gotPreview.Selections["L1"])
	assert.Equal(t, "45", svc.gotPreview.Overrides["L1"].String())

	code, _ = doJSON(t, app, "POST", "/pr/1001/preview", "")
	assert.Equal(t, fiber.StatusOK, code)
}

func TestExportAllocation(t *testing.T) {
	app := newTestApp(&fakeService{pr: samplePR()}, status.RolePurchaser)

	resp, err := app.Test(httptest.NewRequest("GET", "/pr/1001/export", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="PR-2026-0001-allocation.xlsx"`, resp.Header.Get("Content-Disposition"))
}

func TestGetReceipts(t *testing.T) {
	app := newTestApp(&fakeService{pr: samplePR()}, status.RolePurchaser)

	code, body := doJSON(t, app, "GET", "/pr/1001/receipts", "")
	require.Equal(t, fiber.StatusOK, code)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "http://minio/receipt.jpg", data[0].(map[string]any)["url"])
}

func TestUploadReceipt_RequiresFile(t *testing.T) {
	app := newTestApp(&fakeService{pr: samplePR()}, status.RolePurchaser)
	code, body := doJSON(t, app, "POST", "/pr/1001/receipts", "")
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "file is required", body["message"])
}
