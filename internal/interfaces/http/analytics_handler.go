package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Tienda-api/internal/application/analytics"
	"github.com/jhoicas/Tienda-api/internal/application/dto"
)

// AnalyticsHandler maneja los endpoints de ganancias.
type AnalyticsHandler struct {
	uc *appanalytics.ProfitUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *appanalytics.ProfitUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// GetProfit godoc
// @Summary      Ganancias registradas en un rango
// @Description  Agregado calculado al leer sobre los registros de ganancia. Sin rango = todo el histórico.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Inicio del período (YYYY-MM-DD)"
// @Param        to    query  string  false  "Fin del período (YYYY-MM-DD, día completo)"
// @Success      200  {object}  dto.ProfitSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/profit [get]
func (h *AnalyticsHandler) GetProfit(c *fiber.Ctx) error {
	var req dto.ProfitQueryRequest
	if err := c.QueryParser(&req); err != nil {
		return badParams(c, "parámetros de consulta inválidos")
	}
	from, err := parseDate(req.From)
	if err != nil {
		return badParams(c, "from debe tener formato YYYY-MM-DD")
	}
	to, err := parseDate(req.To)
	if err != nil {
		return badParams(c, "to debe tener formato YYYY-MM-DD")
	}
	summary, err := h.uc.Summary(c.Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// GetDashboard devuelve las ganancias del día y del mes en curso y el número de productos en alerta.
// GET /api/analytics/dashboard
//
// No requiere parámetros; las fechas se calculan automáticamente en el servidor.
func (h *AnalyticsHandler) GetDashboard(c *fiber.Ctx) error {
	d, err := h.uc.Dashboard(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(d)
}
