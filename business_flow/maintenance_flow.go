package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/raf-advanced/maintenance-api/app/dto"
	"github.com/raf-advanced/maintenance-api/app/services"
	"github.com/raf-advanced/maintenance-api/config"
	"github.com/raf-advanced/maintenance-api/models"
	"github.com/raf-advanced/maintenance-api/repository"
	"github.com/raf-advanced/maintenance-api/utils"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
)

// MaintenanceFlow defines operations for submitting and inspecting maintenance requests
type MaintenanceFlow interface {
	SubmitRequest(ctx context.Context, req *dto.SubmitMaintenanceRequest, metadata *ClientMetadata) (*dto.SubmitMaintenanceResponse, error)
	GetByOrderCode(ctx context.Context, orderCode string) (*dto.GetMaintenanceRequestResponse, error)
	ListRequests(ctx context.Context, req *dto.ListMaintenanceRequestsRequest) (*dto.ListMaintenanceRequestsResponse, error)
	ExportRequestsExcel(ctx context.Context, req *dto.ListMaintenanceRequestsRequest) (string, []byte, error)
}

// MaintenanceFlowImpl implements MaintenanceFlow
type MaintenanceFlowImpl struct {
	counterRepo repository.SequenceCounterRepository
	requestRepo repository.MaintenanceRequestRepository
	emailSvc    services.EmailService
	smsSvc      services.SMSService
	rc          *redis.Client
	cacheCfg    *config.CacheConfig
	maintCfg    config.MaintenanceConfig
}

func NewMaintenanceFlow(
	counterRepo repository.SequenceCounterRepository,
	requestRepo repository.MaintenanceRequestRepository,
	emailSvc services.EmailService,
	smsSvc services.SMSService,
	rc *redis.Client,
	cacheCfg *config.CacheConfig,
	maintCfg config.MaintenanceConfig,
) MaintenanceFlow {
	return &MaintenanceFlowImpl{
		counterRepo: counterRepo,
		requestRepo: requestRepo,
		emailSvc:    emailSvc,
		smsSvc:      smsSvc,
		rc:          rc,
		cacheCfg:    cacheCfg,
		maintCfg:    maintCfg,
	}
}

const orderCacheKeyPrefix = "maintenance:order:"

// SubmitRequest runs the submission pipeline: allocate an order number, persist
// the request, then email the maintenance desk. Each stage reports its own
// failure code so operators can see where a request died. The order number is
// burned once allocated; a later stage failure never returns it to the pool.
func (f *MaintenanceFlowImpl) SubmitRequest(ctx context.Context, req *dto.SubmitMaintenanceRequest, metadata *ClientMetadata) (*dto.SubmitMaintenanceResponse, error) {
	if isBlank(req.Name) || isBlank(req.NumberOfFloors) || isBlank(req.PhoneNumber) ||
		isBlank(req.NumberOfProjects) || isBlank(req.NumberOfFlats) ||
		isBlank(req.Address) || isBlank(req.Details) {
		return nil, ErrAllFieldsRequired
	}

	// Stage 1: allocation
	allocCtx, cancel := context.WithTimeout(ctx, f.maintCfg.StoreTimeout)
	orderNumber, err := f.counterRepo.NextOrderNumber(allocCtx)
	cancel()
	if err != nil {
		return nil, NewBusinessError(CodeAllocationFailed, "Failed to allocate order number", err)
	}
	orderCode := strconv.FormatInt(orderNumber, 10)

	// Stage 2: persistence
	row := models.MaintenanceRequest{
		OrderNumber:      orderNumber,
		Name:             strings.TrimSpace(req.Name),
		NumberOfFloors:   strings.TrimSpace(req.NumberOfFloors),
		PhoneNumber:      strings.TrimSpace(req.PhoneNumber),
		NumberOfProjects: strings.TrimSpace(req.NumberOfProjects),
		NumberOfFlats:    strings.TrimSpace(req.NumberOfFlats),
		Address:          strings.TrimSpace(req.Address),
		Details:          req.Details,
	}
	saveCtx, cancel := context.WithTimeout(ctx, f.maintCfg.StoreTimeout)
	err = f.requestRepo.Save(saveCtx, &row)
	cancel()
	if err != nil {
		return nil, NewBusinessError(CodePersistenceFailed, "Failed to store maintenance request", err)
	}

	// Stage 3: notification (synchronous; a lost email means an invisible
	// request, so delivery failure fails the submission)
	msg, err := services.BuildMaintenanceEmail(services.MaintenanceEmailData{
		OrderCode:        orderCode,
		Name:             row.Name,
		PhoneNumber:      row.PhoneNumber,
		NumberOfFloors:   row.NumberOfFloors,
		NumberOfFlats:    row.NumberOfFlats,
		NumberOfProjects: row.NumberOfProjects,
		Address:          row.Address,
		Details:          row.Details,
		SubmittedAt:      services.FormatRiyadhTimestamp(row.CreatedAt),
	})
	if err != nil {
		return nil, NewBusinessError(CodeNotificationFailed, "Failed to render notification email", err)
	}
	msg.To = []string{f.maintCfg.RecipientEmail}
	if err := f.emailSvc.SendEmail(ctx, msg); err != nil {
		return nil, NewBusinessError(CodeNotificationFailed, "Failed to send notification email", fmt.Errorf("%w: %w", ErrNotificationFailed, err))
	}

	// Ping the admin over SMS (best-effort)
	if f.smsSvc != nil && f.maintCfg.AdminMobile != "" {
		text := fmt.Sprintf("New maintenance request %s from %s (%s)", orderCode, truncate(row.Name, 30), row.PhoneNumber)
		go func() {
			_ = f.smsSvc.SendSMS(context.Background(), f.maintCfg.AdminMobile, text)
		}()
	}

	return &dto.SubmitMaintenanceResponse{
		Success:   true,
		OrderCode: orderCode,
		Message:   "Maintenance request submitted successfully",
	}, nil
}

// GetByOrderCode looks up a request by its public order code, serving from
// cache when possible. Stored rows never change, so a cached hit never goes
// stale.
func (f *MaintenanceFlowImpl) GetByOrderCode(ctx context.Context, orderCode string) (*dto.GetMaintenanceRequestResponse, error) {
	orderNumber, err := strconv.ParseInt(strings.TrimSpace(orderCode), 10, 64)
	if err != nil || orderNumber <= 0 {
		return nil, ErrInvalidOrderCode
	}

	cacheKey := ""
	if f.rc != nil && f.cacheCfg != nil {
		cacheKey = redisKey(*f.cacheCfg, orderCacheKeyPrefix+orderCode)
		if bs, err := f.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var item dto.MaintenanceRequestItem
			if err := json.Unmarshal(bs, &item); err == nil {
				return &dto.GetMaintenanceRequestResponse{
					Message: "Maintenance request retrieved from cache",
					Item:    item,
				}, nil
			}
		}
	}

	queryCtx, cancel := context.WithTimeout(ctx, f.maintCfg.StoreTimeout)
	row, err := f.requestRepo.ByOrderNumber(queryCtx, orderNumber)
	cancel()
	if err != nil {
		return nil, NewBusinessError("GET_REQUEST_FAILED", "Failed to load maintenance request", err)
	}
	if row == nil {
		return nil, ErrRequestNotFound
	}

	item := ToMaintenanceRequestItem(*row)
	if cacheKey != "" {
		if bs, err := json.Marshal(item); err == nil {
			_ = f.rc.Set(ctx, cacheKey, bs, f.cacheCfg.DefaultTTL).Err()
		}
	}

	return &dto.GetMaintenanceRequestResponse{
		Message: "Maintenance request retrieved successfully",
		Item:    item,
	}, nil
}

// ListRequests returns a page of maintenance requests for the admin surface
func (f *MaintenanceFlowImpl) ListRequests(ctx context.Context, req *dto.ListMaintenanceRequestsRequest) (*dto.ListMaintenanceRequestsResponse, error) {
	filter, err := f.buildFilter(req)
	if err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	offset := int((page - 1) * pageSize)

	queryCtx, cancel := context.WithTimeout(ctx, f.maintCfg.StoreTimeout)
	defer cancel()

	total, err := f.requestRepo.Count(queryCtx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_REQUESTS_FAILED", "Failed to count maintenance requests", err)
	}

	rows, err := f.requestRepo.ByFilter(queryCtx, filter, "order_number DESC", int(pageSize), offset)
	if err != nil {
		return nil, NewBusinessError("LIST_REQUESTS_FAILED", "Failed to list maintenance requests", err)
	}

	items := make([]dto.MaintenanceRequestItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, ToMaintenanceRequestItem(*r))
	}

	return &dto.ListMaintenanceRequestsResponse{
		Message: "Maintenance requests retrieved successfully",
		Total:   total,
		Items:   items,
	}, nil
}

// ExportRequestsExcel builds an xlsx workbook of the matching requests and
// returns a suggested filename with the file contents
func (f *MaintenanceFlowImpl) ExportRequestsExcel(ctx context.Context, req *dto.ListMaintenanceRequestsRequest) (string, []byte, error) {
	filter, err := f.buildFilter(req)
	if err != nil {
		return "", nil, err
	}

	// Export is unpaginated; cap at a size the workbook can carry comfortably
	rows, err := f.requestRepo.ByFilter(ctx, filter, "order_number ASC", 10000, 0)
	if err != nil {
		return "", nil, NewBusinessError("EXPORT_REQUESTS_FAILED", "Failed to load maintenance requests for export", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "requests"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"order_code", "name", "phone_number", "number_of_floors", "number_of_flats", "number_of_projects", "address", "details", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, r := range rows {
		record := []string{
			strconv.FormatInt(r.OrderNumber, 10),
			r.Name,
			r.PhoneNumber,
			r.NumberOfFloors,
			r.NumberOfFlats,
			r.NumberOfProjects,
			r.Address,
			r.Details,
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXPORT_REQUESTS_FAILED", "Failed to build export workbook", err)
	}

	filename := fmt.Sprintf("maintenance_requests_%s.xlsx", utils.UTCNow().Format("20060102_150405"))
	return filename, buf.Bytes(), nil
}

func (f *MaintenanceFlowImpl) buildFilter(req *dto.ListMaintenanceRequestsRequest) (models.MaintenanceRequestFilter, error) {
	filter := models.MaintenanceRequestFilter{}
	if req.PhoneNumber != nil {
		trim := strings.TrimSpace(*req.PhoneNumber)
		if trim != "" {
			filter.PhoneNumber = &trim
		}
	}
	if req.Project != nil {
		trim := strings.TrimSpace(*req.Project)
		if trim != "" {
			filter.Project = &trim
		}
	}
	if req.StartDate != nil {
		filter.CreatedAfter = req.StartDate
	}
	if req.EndDate != nil {
		filter.CreatedBefore = req.EndDate
	}
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return models.MaintenanceRequestFilter{}, ErrStartDateAfterEndDate
	}
	return filter, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "…"
}
