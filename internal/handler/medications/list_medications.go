package medications

import (
	"context"
	"fmt"
	"net/http"

	"medtrack/internal/api"
	"medtrack/internal/cache"
	"medtrack/internal/database"
	"medtrack/internal/errs"
	"medtrack/internal/handler"
	"medtrack/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	defaultSkip  = 0
	defaultLimit = 100
)

// @Summary     List medications
// @Description 依主鍵順序分頁列出藥品
// @Tags        medications
// @Produce     json
// @Param       skip  query    int false "略過筆數" default(0)  minimum(0)
// @Param       limit query    int false "最多筆數" default(100) minimum(0)
// @Success     200   {array}  api.MedicationResponse
// @Failure     400   {object} api.ErrorResponse
// @Failure     500   {object} api.ErrorResponse
// @Router      /medications/ [get]
func ListMedicationsHandler(db database.DB, lc *cache.MedicationList, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		skip, limit, err := parsePage(c)
		if err != nil {
			return handler.RespondError(c, err)
		}

		ctx := c.Request().Context()
		log := zerolog.Ctx(ctx)

		var key string
		if lc != nil {
			key, err = lc.Key(ctx, skip, limit)
			if err != nil {
				log.Warn().Err(err).Msg("medication list cache key")
			} else if meds, ok, err := lc.Get(ctx, key); err != nil {
				log.Warn().Err(err).Msg("read medication list cache")
			} else if ok {
				return c.JSON(http.StatusOK, api.NewMedicationListResponse(meds))
			}
		}

		meds, err := listMedications(ctx, db, skip, limit)
		if err != nil {
			return handler.RespondError(c, err)
		}

		if lc != nil && key != "" && wp != nil {
			fill := func(ctx context.Context) {
				if err := lc.Set(ctx, key, meds); err != nil {
					log.Warn().Err(err).Msg("write medication list cache")
				}
			}
			wp.Submit(fill)
		}

		return c.JSON(http.StatusOK, api.NewMedicationListResponse(meds))
	}
}

func parsePage(c echo.Context) (skip, limit int, err error) {
	skip, limit = defaultSkip, defaultLimit
	if err := echo.QueryParamsBinder(c).
		Int("skip", &skip).
		Int("limit", &limit).
		BindError(); err != nil {
		field := "query"
		if be, ok := err.(*echo.BindingError); ok {
			field = be.Field
		}
		return 0, 0, errs.NewValidationError(fmt.Sprintf("%s: value is not a valid integer", field))
	}
	if skip < 0 {
		return 0, 0, errs.NewValidationError("skip: must be a non-negative integer")
	}
	if limit < 0 {
		return 0, 0, errs.NewValidationError("limit: must be a non-negative integer")
	}
	return skip, limit, nil
}
