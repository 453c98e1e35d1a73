package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"opshell/internal/domain"
	"opshell/internal/registry"
	"opshell/internal/service"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportHandler 租户 × 模块矩阵导出（xlsx）
type ExportHandler struct {
	svc    service.TenantConfigService
	reg    *registry.Registry
	logger *zap.Logger
}

func NewExportHandler(svc service.TenantConfigService, reg *registry.Registry, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, reg: reg, logger: logger}
}

// ExportTenants handles GET /admin/api/v1/tenants/export.
func (h *ExportHandler) ExportTenants(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	configs, err := h.svc.ListConfigs(r.Context())
	if err != nil {
		h.logger.Error("failed to list tenant configs for export", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to export tenants"))
		return
	}

	data, err := generateTenantModuleMatrix(h.reg, configs)
	if err != nil {
		h.logger.Error("failed to generate tenant export", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to export tenants"))
		return
	}

	filename := fmt.Sprintf("tenants-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

// generateTenantModuleMatrix 生成租户模块矩阵 Excel 文件
// 每行一个租户，模块列标记 "Yes" 表示已开通
func generateTenantModuleMatrix(reg *registry.Registry, configs []domain.TenantConfig) ([]byte, error) {
	f := excelize.NewFile()
	// Note: don't defer Close() here, WriteTo needs the file open

	sheetName := "Tenants"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	headers := []string{"Tenant ID", "Tenant Name", "Industry"}
	for _, def := range reg.All() {
		headers = append(headers, def.Label)
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for row, cfg := range configs {
		values := []any{cfg.TenantID, cfg.TenantName, cfg.Industry}
		for _, def := range reg.All() {
			if cfg.HasModule(def.Key) {
				values = append(values, "Yes")
			} else {
				values = append(values, "")
			}
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
