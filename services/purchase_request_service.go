package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"procurement-app/controllers/helpers"
	"procurement-app/models"
	"procurement-app/procurement/allocation"
	"procurement-app/procurement/status"
	"procurement-app/procurement/verification"
	"procurement-app/repositories"
	"procurement-app/types"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	historyType    = "PURCHASE_REQUEST"
	createAttempts = 3
)

var (
	ErrNotEditable       = errors.New("purchase request items can only be changed in DRAFT or REVISION_NEEDED")
	ErrReceiptNotAllowed = errors.New("receipts can only be attached to APPROVED or COMPLETED requests")
	ErrReceiptsDisabled  = errors.New("receipt storage is not configured")
	ErrInvalidLine       = errors.New("invalid request line")
)

// Actor is the authenticated caller.
type Actor struct {
	UserID   uint
	Username string
	Role     status.Role
}

type ItemInput struct {
	ProductID   types.SnowflakeID     `json:"product_id" validate:"required"`
	ItemCode    string                `json:"item_code"`
	ProductName string                `json:"product_name" validate:"required"`
	Quantity    decimal.Decimal       `json:"quantity"`
	Unit        string                `json:"unit" validate:"required"`
	UnitPrice   decimal.Decimal       `json:"unit_price"`
	SourceType  allocation.SourceType `json:"source_type" validate:"required"`
	Note        string                `json:"note"`
}

type CreateInput struct {
	Title      string      `json:"title" validate:"required,max=200"`
	Department string      `json:"department"`
	Note       string      `json:"note"`
	Items      []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// VerificationInput is the verification screen state sent with a preview or
// an approval. Keys are line ids.
type VerificationInput struct {
	Selections      map[string][]string              `json:"selections"`
	Overrides       map[string]decimal.Decimal       `json:"overrides"`
	SourceOverrides map[string]allocation.SourceType `json:"source_overrides"`
}

type ChangeStatusInput struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
	VerificationInput
}

type PreviewLine struct {
	LineID      string                           `json:"line_id"`
	ProductID   string                           `json:"product_id"`
	ProductName string                           `json:"product_name"`
	Source      allocation.SourceType            `json:"effective_source"`
	Selected    []string                         `json:"selected"`
	TotalStock  decimal.Decimal                  `json:"total_stock"`
	Breakdown   []allocation.WarehouseStockEntry `json:"breakdown"`
	StockError  string                           `json:"stock_error,omitempty"`
	Error       string                           `json:"error,omitempty"`
	allocation.Result
}

type Preview struct {
	Lines      []PreviewLine            `json:"lines"`
	Blockers   []allocation.BlockedLine `json:"blockers"`
	CanApprove bool                     `json:"can_approve"`
	Payload    allocation.Payload       `json:"payload"`
}

type PurchaseRequestService struct {
	repo     *repositories.PurchaseRequestRepository
	stock    StockProvider
	notifier Notifier
	receipts ReceiptStore
	memo     *allocation.Memo
	workers  int
	logger   *zap.Logger
}

type Options struct {
	Stock    StockProvider
	Notifier Notifier
	Receipts ReceiptStore
	Memo     *allocation.Memo
	Workers  int
	Logger   *zap.Logger
}

func NewPurchaseRequestService(repo *repositories.PurchaseRequestRepository, opts Options) *PurchaseRequestService {
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &PurchaseRequestService{
		repo:     repo,
		stock:    opts.Stock,
		notifier: opts.Notifier,
		receipts: opts.Receipts,
		memo:     opts.Memo,
		workers:  opts.Workers,
		logger:   opts.Logger,
	}
}

func (s *PurchaseRequestService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]models.PurchaseRequest, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *PurchaseRequestService) Get(ctx context.Context, id types.SnowflakeID) (*models.PurchaseRequest, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PurchaseRequestService) Create(ctx context.Context, actor Actor, in CreateInput) (*models.PurchaseRequest, error) {
	items, err := buildItems(in.Items, int(actor.UserID))
	if err != nil {
		return nil, err
	}

	pr := &models.PurchaseRequest{
		Title:         in.Title,
		Department:    in.Department,
		Note:          in.Note,
		RequesterID:   actor.UserID,
		RequesterName: actor.Username,
		Status:        string(status.Draft),
		TotalAmount:   sumItems(items),
		Items:         items,
		CreatedBy:     int(actor.UserID),
		UpdatedBy:     int(actor.UserID),
	}

	// Codes come from MAX(code)+1, so a concurrent create can take the same
	// one; the unique index rejects it and the whole insert is retried.
	for attempt := 1; ; attempt++ {
		err = s.repo.Transaction(ctx, func(tx *repositories.PurchaseRequestRepository) error {
			code, err := tx.GenerateCode(ctx)
			if err != nil {
				return fmt.Errorf("generate code: %w", err)
			}
			pr.Code = code
			if err := tx.Create(ctx, pr); err != nil {
				return err
			}
			return helpers.InsertTransactionHistory(tx.DB(), pr.Code, "", pr.Status, historyType, "created", int(actor.UserID))
		})
		if !errors.Is(err, repositories.ErrDuplicate) || attempt == createAttempts {
			break
		}
		s.logger.Warn("purchase request code taken, retrying", zap.String("code", pr.Code), zap.Int("attempt", attempt))
		resetCreated(pr)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("purchase request created", zap.String("code", pr.Code), zap.Int("items", len(items)))
	return pr, nil
}

// resetCreated clears what a rolled-back insert assigned, so the next attempt
// gets fresh ids.
func resetCreated(pr *models.PurchaseRequest) {
	pr.ID = 0
	pr.Code = ""
	for i := range pr.Items {
		pr.Items[i].ID = 0
		pr.Items[i].PurchaseRequestID = 0
	}
}

// UpdateItems replaces the lines of a DRAFT or REVISION_NEEDED request.
func (s *PurchaseRequestService) UpdateItems(ctx context.Context, actor Actor, id types.SnowflakeID, in []ItemInput) (*models.PurchaseRequest, error) {
	pr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st := status.Status(pr.Status); st != status.Draft && st != status.RevisionNeeded {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotEditable, pr.Code, pr.Status)
	}

	items, err := buildItems(in, int(actor.UserID))
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].PurchaseRequestID = pr.ID
	}

	err = s.repo.Transaction(ctx, func(tx *repositories.PurchaseRequestRepository) error {
		pr.TotalAmount = sumItems(items)
		pr.UpdatedBy = int(actor.UserID)
		ok, err := tx.UpdateHeaderFrom(ctx, pr, pr.Status)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s changed status", ErrNotEditable, pr.Code)
		}
		return tx.ReplaceItems(ctx, pr.ID, items)
	})
	if err != nil {
		return nil, err
	}
	pr.Items = items
	return pr, nil
}

// Transitions lists the statuses the actor may move the request to.
func (s *PurchaseRequestService) Transitions(ctx context.Context, actor Actor, id types.SnowflakeID) ([]status.Status, error) {
	pr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from, err := status.Parse(pr.Status)
	if err != nil {
		return nil, err
	}
	return status.TargetsFor(actor.Role, from), nil
}

// Preview computes the allocation the approval would persist, without
// writing anything.
func (s *PurchaseRequestService) Preview(ctx context.Context, id types.SnowflakeID, in VerificationInput) (*Preview, error) {
	pr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	session, err := s.session(ctx, pr, in)
	if err != nil {
		return nil, err
	}

	preview := &Preview{Blockers: []allocation.BlockedLine{}, Payload: session.Payload(s.memo)}
	for _, lr := range session.Compute(s.memo) {
		id := lr.Parent.ID
		pl := PreviewLine{
			LineID:      id,
			ProductID:   lr.Parent.ProductID,
			ProductName: lr.Parent.ProductName,
			Source:      session.EffectiveSource(id),
			Selected:    session.Selected(id),
			Breakdown:   session.Breakdown(id),
			Result:      lr.Result,
		}
		pl.TotalStock = allocation.TotalStock(pl.Breakdown)
		if serr := session.StockError(id); serr != nil {
			pl.StockError = serr.Error()
		} else if lr.Err != nil {
			pl.Error = lr.Err.Error()
		}
		preview.Lines = append(preview.Lines, pl)
	}

	var incomplete *allocation.IncompleteAllocationError
	if err := session.ApprovalBlockers(s.memo); errors.As(err, &incomplete) {
		preview.Blockers = incomplete.Lines
	}
	preview.CanApprove = len(preview.Blockers) == 0
	return preview, nil
}

// ChangeStatus moves the request through the state machine. Approval runs the
// allocation and stores it; cancelling an approval restores the lines.
func (s *PurchaseRequestService) ChangeStatus(ctx context.Context, actor Actor, id types.SnowflakeID, in ChangeStatusInput) (*models.PurchaseRequest, error) {
	pr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from, err := status.Parse(pr.Status)
	if err != nil {
		return nil, err
	}
	to, err := status.Parse(in.Status)
	if err != nil {
		return nil, err
	}
	if err := status.CheckRole(actor.Role, from, to); err != nil {
		return nil, err
	}

	var session *verification.Session
	if to == status.Approved {
		session, err = s.session(ctx, pr, in.VerificationInput)
		if err != nil {
			return nil, err
		}
		if err := session.ApprovalBlockers(s.memo); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	err = s.repo.Transaction(ctx, func(tx *repositories.PurchaseRequestRepository) error {
		current, err := tx.LockStatus(ctx, pr.ID)
		if err != nil {
			return err
		}
		if current != string(from) {
			cur, err := status.Parse(current)
			if err != nil {
				return err
			}
			if err := status.CheckRole(actor.Role, cur, to); err != nil {
				return err
			}
			return status.Conflict(from, to)
		}

		switch {
		case to == status.Approved:
			if err := s.persistApproval(ctx, tx, pr, session, actor); err != nil {
				return err
			}
			pr.ApprovedAt = &now
			pr.ApprovedBy = int(actor.UserID)
		case status.IsCancelApprove(from, to):
			if err := s.restoreApproval(ctx, tx, pr); err != nil {
				return err
			}
			pr.ApprovedAt = nil
			pr.ApprovedBy = 0
		case to == status.Submitted:
			pr.SubmittedAt = &now
		case to == status.Completed:
			pr.CompletedAt = &now
		}

		pr.Status = string(to)
		pr.UpdatedBy = int(actor.UserID)
		ok, err := tx.UpdateHeaderFrom(ctx, pr, string(from))
		if err != nil {
			return err
		}
		if !ok {
			return status.Conflict(from, to)
		}
		return helpers.InsertTransactionHistory(tx.DB(), pr.Code, string(from), string(to), historyType, in.Note, int(actor.UserID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase request status changed",
		zap.String("code", pr.Code), zap.String("from", string(from)), zap.String("to", string(to)),
		zap.Uint("user_id", actor.UserID))

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(*updated, string(from), string(to))
	return updated, nil
}

func (s *PurchaseRequestService) notify(pr models.PurchaseRequest, from, to string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.StatusChanged(ctx, pr, from, to); err != nil {
			s.logger.Error("status notification failed", zap.String("code", pr.Code), zap.Error(err))
		}
	}()
}

func (s *PurchaseRequestService) persistApproval(ctx context.Context, tx *repositories.PurchaseRequestRepository, pr *models.PurchaseRequest, session *verification.Session, actor Actor) error {
	byID := make(map[string]*models.PurchaseRequestItem, len(pr.Items))
	nextLine := 0
	for i := range pr.Items {
		byID[pr.Items[i].ID.String()] = &pr.Items[i]
		if pr.Items[i].LineNo > nextLine {
			nextLine = pr.Items[i].LineNo
		}
	}

	var rows []models.StockAllocation
	var splits []models.PurchaseRequestItem
	for _, lr := range session.Compute(s.memo) {
		if lr.Err != nil {
			return lr.Err
		}
		item, ok := byID[lr.Parent.ID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrInvalidLine, lr.Parent.ID)
		}

		changed := false
		if src := session.EffectiveSource(item.ID.String()); string(src) != item.SourceType {
			item.OriginalSource = item.SourceType
			item.SourceType = string(src)
			changed = true
		}
		if lr.State == allocation.Partial || lr.State == allocation.Covered {
			item.OriginalQuantity = decimal.NewNullDecimal(item.Quantity)
			item.OriginalUnitPrice = decimal.NewNullDecimal(item.UnitPrice)
			item.Quantity = lr.Parent.Quantity
			item.UnitPrice = lr.Parent.UnitPrice.Round(models.PriceScale)
			item.TotalPrice = lr.Parent.TotalPrice
			changed = true

			for _, a := range lr.Allocations {
				whID, err := types.ParseSnowflakeID(a.WarehouseID)
				if err != nil {
					return fmt.Errorf("warehouse id: %w", err)
				}
				rows = append(rows, models.StockAllocation{
					PurchaseRequestID: pr.ID,
					ItemID:            item.ID,
					ProductID:         item.ProductID,
					WarehouseID:       whID,
					WarehouseName:     a.WarehouseName,
					Quantity:          a.Quantity,
					UnitPrice:         a.UnitPrice,
					TotalPrice:        a.TotalPrice,
					CreatedBy:         int(actor.UserID),
				})
			}
		}
		if changed {
			item.UpdatedBy = int(actor.UserID)
			if err := tx.UpdateItem(ctx, item); err != nil {
				return err
			}
		}

		if lr.Split != nil {
			nextLine++
			parentID := item.ID
			splits = append(splits, models.PurchaseRequestItem{
				PurchaseRequestID: pr.ID,
				LineNo:            nextLine,
				ProductID:         item.ProductID,
				ItemCode:          item.ItemCode,
				ProductName:       item.ProductName,
				Quantity:          lr.Split.Quantity,
				Unit:              lr.Split.Unit,
				UnitPrice:         lr.Split.UnitPrice.Round(models.PriceScale),
				TotalPrice:        lr.Split.TotalPrice,
				SourceType:        string(lr.Split.SourceType),
				Note:              lr.Split.Note,
				ParentItemID:      &parentID,
				CreatedBy:         int(actor.UserID),
				UpdatedBy:         int(actor.UserID),
			})
		}
	}

	if err := tx.CreateAllocations(ctx, rows); err != nil {
		return err
	}
	if err := tx.CreateItems(ctx, splits); err != nil {
		return err
	}

	payload, err := json.Marshal(session.Payload(s.memo))
	if err != nil {
		return err
	}
	pr.Allocation = string(payload)

	total := decimal.Zero
	for _, it := range pr.Items {
		total = total.Add(it.TotalPrice)
	}
	for _, it := range splits {
		total = total.Add(it.TotalPrice)
	}
	pr.TotalAmount = total
	return nil
}

func (s *PurchaseRequestService) restoreApproval(ctx context.Context, tx *repositories.PurchaseRequestRepository, pr *models.PurchaseRequest) error {
	if err := tx.DeleteAllocations(ctx, pr.ID); err != nil {
		return err
	}
	if err := tx.DeleteSplitItems(ctx, pr.ID); err != nil {
		return err
	}

	total := decimal.Zero
	for i := range pr.Items {
		item := &pr.Items[i]
		if item.IsSplit() {
			continue
		}
		if restoreItem(item) {
			if err := tx.UpdateItem(ctx, item); err != nil {
				return err
			}
		}
		total = total.Add(item.TotalPrice)
	}
	pr.TotalAmount = total
	pr.Allocation = ""
	return nil
}

// restoreItem puts back the pre-approval values and reports whether anything
// changed.
func restoreItem(item *models.PurchaseRequestItem) bool {
	changed := false
	if item.OriginalQuantity.Valid {
		item.Quantity = item.OriginalQuantity.Decimal
		item.UnitPrice = item.OriginalUnitPrice.Decimal
		item.TotalPrice = item.Quantity.Mul(item.UnitPrice)
		item.OriginalQuantity = decimal.NullDecimal{}
		item.OriginalUnitPrice = decimal.NullDecimal{}
		changed = true
	}
	if item.OriginalSource != "" {
		item.SourceType = item.OriginalSource
		item.OriginalSource = ""
		changed = true
	}
	return changed
}

// Allocations returns the request with its stored warehouse draws.
func (s *PurchaseRequestService) Allocations(ctx context.Context, id types.SnowflakeID) (*models.PurchaseRequest, []models.StockAllocation, error) {
	pr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.repo.FindAllocations(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return pr, rows, nil
}

// ExportAllocations writes the stored allocation of the request as xlsx.
func (s *PurchaseRequestService) ExportAllocations(ctx context.Context, id types.SnowflakeID, w io.Writer) (string, error) {
	pr, rows, err := s.Allocations(ctx, id)
	if err != nil {
		return "", err
	}

	names := make(map[string]string, len(pr.Items))
	var splits []allocation.SplitItem
	for _, it := range pr.Items {
		names[it.ID.String()] = it.ProductName
		if it.IsSplit() {
			splits = append(splits, allocation.SplitItem{
				ParentID:   it.ParentItemID.String(),
				ProductID:  it.ProductID.String(),
				Quantity:   it.Quantity,
				Unit:       it.Unit,
				SourceType: allocation.SourceType(it.SourceType),
				UnitPrice:  it.UnitPrice,
				TotalPrice: it.TotalPrice,
				Note:       it.Note,
			})
		}
	}

	export := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		export = append(export, ExportRow{
			LineID:        r.ItemID.String(),
			ProductName:   names[r.ItemID.String()],
			WarehouseName: r.WarehouseName,
			Quantity:      r.Quantity,
			UnitPrice:     r.UnitPrice,
			TotalPrice:    r.TotalPrice,
		})
	}
	return pr.Code, WriteAllocationWorkbook(w, pr.Code, export, splits)
}

type ReceiptInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AddReceipt stores a receipt photo for an approved or completed request.
func (s *PurchaseRequestService) AddReceipt(ctx context.Context, actor Actor, id types.SnowflakeID, in ReceiptInput) (*models.Attachment, error) {
	if s.receipts == nil {
		return nil, ErrReceiptsDisabled
	}
	pr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st := status.Status(pr.Status); st != status.Approved && st != status.Completed {
		return nil, fmt.Errorf("%w: %s is %s", ErrReceiptNotAllowed, pr.Code, pr.Status)
	}

	att := &models.Attachment{
		PurchaseRequestID: pr.ID,
		Bucket:            s.receipts.Bucket(),
		FileName:          in.FileName,
		ContentType:       in.ContentType,
		Size:              in.Size,
		CreatedBy:         int(actor.UserID),
	}
	// the id is needed for the object key before the row exists
	if err := att.BeforeCreate(nil); err != nil {
		return nil, err
	}
	att.ObjectKey = ReceiptKey(pr.Code, att.ID.String(), in.FileName)

	if err := s.receipts.Put(ctx, att.ObjectKey, in.Body, in.Size, in.ContentType); err != nil {
		return nil, fmt.Errorf("upload receipt: %w", err)
	}
	if err := s.repo.CreateAttachment(ctx, att); err != nil {
		return nil, err
	}
	return att, nil
}

func (s *PurchaseRequestService) ReceiptURL(ctx context.Context, att models.Attachment) (string, error) {
	if s.receipts == nil {
		return "", ErrReceiptsDisabled
	}
	return s.receipts.URL(ctx, att.ObjectKey)
}

func (s *PurchaseRequestService) Receipts(ctx context.Context, id types.SnowflakeID) ([]models.Attachment, error) {
	return s.repo.FindAttachments(ctx, id)
}

func (s *PurchaseRequestService) History(ctx context.Context, id types.SnowflakeID) ([]models.TransactionHistory, error) {
	pr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindHistory(ctx, pr.Code)
}

// session builds the verification state for the request's original lines and
// applies the caller's selections and overrides.
func (s *PurchaseRequestService) session(ctx context.Context, pr *models.PurchaseRequest, in VerificationInput) (*verification.Session, error) {
	sess := verification.NewSession(RequestLines(pr.Items))
	if s.stock != nil {
		FetchBreakdowns(ctx, s.stock, sess, s.workers)
	}
	return sess, ApplyVerification(sess, in)
}

// ApplyVerification copies the screen state into the session.
func ApplyVerification(sess *verification.Session, in VerificationInput) error {
	for lineID, ids := range in.Selections {
		if err := sess.Select(lineID, ids...); err != nil {
			return err
		}
	}
	for lineID, qty := range in.Overrides {
		if err := sess.SetOverride(lineID, qty); err != nil {
			return err
		}
	}
	for lineID, src := range in.SourceOverrides {
		if err := sess.SetSourceOverride(lineID, src); err != nil {
			return err
		}
	}
	return nil
}

// RequestLines converts the stored non-split items to calculator lines.
func RequestLines(items []models.PurchaseRequestItem) []allocation.RequestLine {
	lines := make([]allocation.RequestLine, 0, len(items))
	for _, it := range items {
		if it.IsSplit() {
			continue
		}
		lines = append(lines, allocation.RequestLine{
			ID:          it.ID.String(),
			ProductID:   it.ProductID.String(),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
			SourceType:  allocation.SourceType(it.SourceType),
			Note:        it.Note,
		})
	}
	return lines
}

func buildItems(in []ItemInput, actor int) ([]models.PurchaseRequestItem, error) {
	items := make([]models.PurchaseRequestItem, 0, len(in))
	for i, it := range in {
		if !it.SourceType.Valid() {
			return nil, fmt.Errorf("%w: line %d has unknown source type %q", ErrInvalidLine, i+1, it.SourceType)
		}
		if !it.Quantity.IsPositive() {
			return nil, &allocation.InvalidQuantityError{LineID: fmt.Sprint(i + 1), Field: "quantity", Value: it.Quantity.String()}
		}
		if it.UnitPrice.IsNegative() {
			return nil, &allocation.InvalidQuantityError{LineID: fmt.Sprint(i + 1), Field: "unit price", Value: it.UnitPrice.String()}
		}
		items = append(items, models.PurchaseRequestItem{
			LineNo:      i + 1,
			ProductID:   it.ProductID,
			ItemCode:    it.ItemCode,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.Quantity.Mul(it.UnitPrice),
			SourceType:  string(it.SourceType),
			Note:        it.Note,
			CreatedBy:   actor,
			UpdatedBy:   actor,
		})
	}
	return items, nil
}

func sumItems(items []models.PurchaseRequestItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice)
	}
	return total
}
