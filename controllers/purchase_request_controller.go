package controllers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"procurement-app/database"
	"procurement-app/models"
	"procurement-app/procurement/status"
	"procurement-app/services"
	"procurement-app/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PurchaseRequestService is what the handlers need from
// services.PurchaseRequestService.
type PurchaseRequestService interface {
	List(ctx context.Context, page, pageSize int, filters map[string]string) ([]models.PurchaseRequest, int64, error)
	Get(ctx context.Context, id types.SnowflakeID) (*models.PurchaseRequest, error)
	Create(ctx context.Context, actor services.Actor, in services.CreateInput) (*models.PurchaseRequest, error)
	UpdateItems(ctx context.Context, actor services.Actor, id types.SnowflakeID, in []services.ItemInput) (*models.PurchaseRequest, error)
	Transitions(ctx context.Context, actor services.Actor, id types.SnowflakeID) ([]status.Status, error)
	Preview(ctx context.Context, id types.SnowflakeID, in services.VerificationInput) (*services.Preview, error)
	ChangeStatus(ctx context.Context, actor services.Actor, id types.SnowflakeID, in services.ChangeStatusInput) (*models.PurchaseRequest, error)
	ExportAllocations(ctx context.Context, id types.SnowflakeID, w io.Writer) (string, error)
	AddReceipt(ctx context.Context, actor services.Actor, id types.SnowflakeID, in services.ReceiptInput) (*models.Attachment, error)
	Receipts(ctx context.Context, id types.SnowflakeID) ([]models.Attachment, error)
	ReceiptURL(ctx context.Context, att models.Attachment) (string, error)
	History(ctx context.Context, id types.SnowflakeID) ([]models.TransactionHistory, error)
}

// PurchaseRequestController builds its service per request from the unit
// database that InjectDBMiddleware placed in the context.
type PurchaseRequestController struct {
	NewService     func(db *gorm.DB) PurchaseRequestService
	MaxReceiptSize int64
}

func (pc *PurchaseRequestController) service(c *fiber.Ctx) PurchaseRequestService {
	return pc.NewService(database.DB(c))
}

func (pc *PurchaseRequestController) GetPurchaseRequests(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	filters := map[string]string{
		"status": c.Query("status"),
		"search": c.Query("search"),
	}
	if c.Query("mine") == "true" {
		filters["requester_id"] = strconv.FormatUint(uint64(actorFrom(c).UserID), 10)
	}

	items, total, err := pc.service(c).List(c.UserContext(), page, pageSize, filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
		"total":   total,
		"page":    page,
	})
}

func (pc *PurchaseRequestController) GetPurchaseRequestByID(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	pr, err := pc.service(c).Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": pr})
}

func (pc *PurchaseRequestController) CreatePurchaseRequest(c *fiber.Ctx) error {
	var in services.CreateInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	pr, err := pc.service(c).Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Purchase request " + pr.Code + " created",
		"data":    pr,
	})
}

func (pc *PurchaseRequestController) UpdateItems(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var in struct {
		Items []services.ItemInput `json:"items" validate:"required,min=1,dive"`
	}
	if err := parseBody(c, &in); err != nil {
		return err
	}
	pr, err := pc.service(c).UpdateItems(c.UserContext(), actorFrom(c), id, in.Items)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": pr})
}

func (pc *PurchaseRequestController) GetTransitions(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	targets, err := pc.service(c).Transitions(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return err
	}
	if targets == nil {
		targets = []status.Status{}
	}
	return c.JSON(fiber.Map{"success": true, "data": targets})
}

// PreviewAllocation computes the allocation for the posted verification state.
func (pc *PurchaseRequestController) PreviewAllocation(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var in services.VerificationInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	preview, err := pc.service(c).Preview(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": preview})
}

func (pc *PurchaseRequestController) ChangeStatus(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var in services.ChangeStatusInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	pr, err := pc.service(c).ChangeStatus(c.UserContext(), actorFrom(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Purchase request %s is now %s", pr.Code, pr.Status),
		"data":    pr,
	})
}

func (pc *PurchaseRequestController) ExportAllocation(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	code, err := pc.service(c).ExportAllocations(c.UserContext(), id, &buf)
	if err != nil {
		return err
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-allocation.xlsx"`, code))
	return c.Send(buf.Bytes())
}

func (pc *PurchaseRequestController) UploadReceipt(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	if pc.MaxReceiptSize > 0 && fh.Size > pc.MaxReceiptSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "file too large")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	att, err := pc.service(c).AddReceipt(c.UserContext(), actorFrom(c), id, services.ReceiptInput{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": att})
}

func (pc *PurchaseRequestController) GetReceipts(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	svc := pc.service(c)
	atts, err := svc.Receipts(c.UserContext(), id)
	if err != nil {
		return err
	}

	type receipt struct {
		models.Attachment
		URL string `json:"url,omitempty"`
	}
	out := make([]receipt, 0, len(atts))
	for _, a := range atts {
		url, _ := svc.ReceiptURL(c.UserContext(), a)
		out = append(out, receipt{Attachment: a, URL: url})
	}
	return c.JSON(fiber.Map{"success": true, "data": out})
}

func (pc *PurchaseRequestController) GetHistory(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	rows, err := pc.service(c).History(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": rows})
}
