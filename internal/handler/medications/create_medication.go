package medications

import (
	"net/http"

	"medtrack/internal/api"
	"medtrack/internal/cache"
	"medtrack/internal/database"
	"medtrack/internal/handler"
	"medtrack/internal/model"
	"medtrack/internal/sqlerr"
	"medtrack/internal/store"
	"medtrack/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

var (
	withTx           = database.WithTx
	createMedication = store.CreateMedication
	listMedications  = store.ListMedications
)

// @Summary     Register a medication
// @Description preparationDate 格式為 YYYY-MM-DD HH:MM:SS，expirationDate 格式為 YYYY-MM-DD
// @Tags        medications
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateMedicationRequest true "藥品資料"
// @Success     200  {object} api.CreateMedicationResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /medications/ [post]
func CreateMedicationHandler(db database.DB, lc *cache.MedicationList) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateMedicationRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return handler.RespondError(c, err)
		}

		prepared, err := validation.ParsePreparationDate(*req.PreparationDate)
		if err != nil {
			return handler.RespondError(c, err)
		}
		expires, err := validation.ParseExpirationDate(*req.ExpirationDate)
		if err != nil {
			return handler.RespondError(c, err)
		}

		ctx := c.Request().Context()
		med := &model.Medication{
			Name:            *req.Name,
			Activity:        *req.Activity,
			Volume:          *req.Volume,
			PreparationDate: prepared,
			BatchNumber:     *req.BatchNumber,
			ExpirationDate:  expires,
		}
		err = withTx(ctx, db, func(q database.Querier) error {
			_, err := createMedication(ctx, q, med)
			return err
		})
		if err != nil {
			return handler.RespondError(c, sqlerr.Translate(err, nil))
		}

		// 讓已快取的清單失效；失敗只記錄，不影響回應
		if lc != nil {
			if err := lc.Invalidate(ctx); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("invalidate medication list cache")
			}
		}

		return c.JSON(http.StatusOK, api.CreateMedicationResponse{
			Message:    "Medication registered successfully",
			Medication: med.ID,
		})
	}
}
