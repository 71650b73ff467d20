package medications

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"medtrack/internal/cache"
	"medtrack/internal/database"
	"medtrack/internal/model"
	"medtrack/internal/store"
	"medtrack/internal/validation"
	"medtrack/internal/worker"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

/* ---------- 測試輔助 ---------- */

const validBody = `{
	"name": "Paracetamol",
	"activity": "Analgesic",
	"volume": "500 mg",
	"preparationDate": "2024-01-15 10:30:00",
	"batchNumber": "B-2024-001",
	"expirationDate": "2025-06-01"
}`

func restore() {
	withTx = database.WithTx
	createMedication = store.CreateMedication
	listMedications = store.ListMedications
}

func newPostCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/medications/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newListCtx(e *echo.Echo, query string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/medications/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newTxDB() (*database.FakeDB, *database.FakeTx) {
	tx := &database.FakeTx{}
	return &database.FakeDB{BeginFn: func(context.Context) (pgx.Tx, error) { return tx, nil }}, tx
}

// medTable 模擬 medications 資料表（依插入順序即主鍵順序）
type medTable struct {
	rows []model.Medication
}

func (m *medTable) create(_ context.Context, _ database.Querier, med *model.Medication) (*model.Medication, error) {
	med.ID = len(m.rows) + 1
	m.rows = append(m.rows, *med)
	return med, nil
}

func (m *medTable) list(_ context.Context, _ database.Querier, skip, limit int) ([]model.Medication, error) {
	if skip >= len(m.rows) {
		return []model.Medication{}, nil
	}
	end := min(skip+limit, len(m.rows))
	return m.rows[skip:end], nil
}

// memCache 以 map 實作 cache.FakeCache
func memCache() (*cache.FakeCache, map[string]string) {
	data := map[string]string{}
	return &cache.FakeCache{
		GetFn: func(_ context.Context, key string) *redis.StringCmd {
			v, ok := data[key]
			if !ok {
				return redis.NewStringResult("", redis.Nil)
			}
			return redis.NewStringResult(v, nil)
		},
		SetFn: func(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
			data[key] = string(value.([]byte))
			return redis.NewStatusResult("OK", nil)
		},
		IncrFn: func(_ context.Context, key string) *redis.IntCmd {
			n, _ := strconv.ParseInt(data[key], 10, 64)
			n++
			data[key] = strconv.FormatInt(n, 10)
			return redis.NewIntResult(n, nil)
		},
	}, data
}

// syncPool 直接在呼叫端執行 task
type syncPool struct{ submitted int }

func (p *syncPool) Submit(t worker.Task) bool {
	p.submitted++
	t(context.Background())
	return true
}

func (p *syncPool) Stop() {}

/* ---------- create ---------- */

func TestCreateMedicationHandler(t *testing.T) {
	e := echo.New()
	e.Validator = validation.NewValidator()

	t.Run("success stores parsed dates", func(t *testing.T) {
		t.Cleanup(restore)
		db, tx := newTxDB()
		table := &medTable{rows: []model.Medication{{ID: 1}, {ID: 2}}}
		createMedication = table.create

		ctx, rec := newPostCtx(e, validBody)
		require.NoError(t, CreateMedicationHandler(db, nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"message":"Medication registered successfully","medication":3}`, rec.Body.String())
		require.True(t, tx.Committed)

		got := table.rows[2]
		require.Equal(t, "Paracetamol", got.Name)
		require.Equal(t, "Analgesic", got.Activity)
		require.Equal(t, "500 mg", got.Volume)
		require.Equal(t, "B-2024-001", got.BatchNumber)
		require.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), got.PreparationDate)
		require.Equal(t, "2025-06-01", got.ExpirationDate.Format(validation.ExpirationDateLayout))
	})

	t.Run("missing time component", func(t *testing.T) {
		t.Cleanup(restore)
		body := strings.Replace(validBody, "2024-01-15 10:30:00", "2024-01-15", 1)
		ctx, rec := newPostCtx(e, body)
		require.NoError(t, CreateMedicationHandler(&database.FakeDB{}, nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Date format error: ")
	})

	t.Run("expiration with time component", func(t *testing.T) {
		t.Cleanup(restore)
		body := strings.Replace(validBody, `"2025-06-01"`, `"2025-06-01 00:00:00"`, 1)
		ctx, rec := newPostCtx(e, body)
		require.NoError(t, CreateMedicationHandler(&database.FakeDB{}, nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Date format error: ")
	})

	t.Run("missing field", func(t *testing.T) {
		t.Cleanup(restore)
		body := strings.Replace(validBody, `"batchNumber": "B-2024-001",`, "", 1)
		ctx, rec := newPostCtx(e, body)
		require.NoError(t, CreateMedicationHandler(&database.FakeDB{}, nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "batchNumber: field required")
	})

	t.Run("empty strings are accepted", func(t *testing.T) {
		t.Cleanup(restore)
		db, tx := newTxDB()
		table := &medTable{}
		createMedication = table.create
		body := strings.Replace(validBody, `"Paracetamol"`, `""`, 1)
		body = strings.Replace(body, `"B-2024-001"`, `""`, 1)
		ctx, rec := newPostCtx(e, body)
		require.NoError(t, CreateMedicationHandler(db, nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, tx.Committed)
		require.Equal(t, "", table.rows[0].Name)
		require.Equal(t, "", table.rows[0].BatchNumber)
	})

	t.Run("empty date is a format error", func(t *testing.T) {
		t.Cleanup(restore)
		body := strings.Replace(validBody, `"2025-06-01"`, `""`, 1)
		ctx, rec := newPostCtx(e, body)
		require.NoError(t, CreateMedicationHandler(&database.FakeDB{}, nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Date format error: ")
	})

	t.Run("volume too long", func(t *testing.T) {
		t.Cleanup(restore)
		body := strings.Replace(validBody, "500 mg", strings.Repeat("x", 51), 1)
		ctx, rec := newPostCtx(e, body)
		require.NoError(t, CreateMedicationHandler(&database.FakeDB{}, nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("integrity error rolls back", func(t *testing.T) {
		t.Cleanup(restore)
		db, tx := newTxDB()
		createMedication = func(context.Context, database.Querier, *model.Medication) (*model.Medication, error) {
			return nil, &pgconn.PgError{Code: "23514", Message: "check violated"}
		}
		ctx, rec := newPostCtx(e, validBody)
		require.NoError(t, CreateMedicationHandler(db, nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Integrity Error: ")
		require.True(t, tx.RolledBack)
		require.False(t, tx.Committed)
	})

	t.Run("unexpected error rolls back", func(t *testing.T) {
		t.Cleanup(restore)
		db, tx := newTxDB()
		createMedication = func(context.Context, database.Querier, *model.Medication) (*model.Medication, error) {
			return nil, errors.New("disk full")
		}
		ctx, rec := newPostCtx(e, validBody)
		require.NoError(t, CreateMedicationHandler(db, nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "Unexpected Error: disk full")
		require.True(t, tx.RolledBack)
	})

	t.Run("invalidates list cache", func(t *testing.T) {
		t.Cleanup(restore)
		db, _ := newTxDB()
		createMedication = (&medTable{}).create
		fc, data := memCache()
		ctx, rec := newPostCtx(e, validBody)
		require.NoError(t, CreateMedicationHandler(db, cache.NewMedicationList(fc, time.Minute))(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "1", data["medications:generation"])
	})

	t.Run("cache failure does not fail request", func(t *testing.T) {
		t.Cleanup(restore)
		db, _ := newTxDB()
		createMedication = (&medTable{}).create
		fc := &cache.FakeCache{IncrFn: func(context.Context, string) *redis.IntCmd {
			return redis.NewIntResult(0, errors.New("down"))
		}}
		ctx, rec := newPostCtx(e, validBody)
		require.NoError(t, CreateMedicationHandler(db, cache.NewMedicationList(fc, time.Minute))(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

/* ---------- list ---------- */

func seedTable(n int) *medTable {
	table := &medTable{}
	for i := 0; i < n; i++ {
		table.create(context.Background(), nil, &model.Medication{
			Name:            "Med " + strconv.Itoa(i+1),
			PreparationDate: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			ExpirationDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return table
}

func TestListMedicationsHandler(t *testing.T) {
	e := echo.New()

	t.Run("first page", func(t *testing.T) {
		t.Cleanup(restore)
		listMedications = seedTable(5).list
		ctx, rec := newListCtx(e, "skip=0&limit=2")
		require.NoError(t, ListMedicationsHandler(nil, nil, nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `[
			{"id":1,"name":"Med 1","activity":"","volume":"","preparation_date":"2024-01-15T10:30:00","batch_number":"","expiration_date":"2025-06-01"},
			{"id":2,"name":"Med 2","activity":"","volume":"","preparation_date":"2024-01-15T10:30:00","batch_number":"","expiration_date":"2025-06-01"}
		]`, rec.Body.String())
	})

	t.Run("tail", func(t *testing.T) {
		t.Cleanup(restore)
		listMedications = seedTable(5).list
		ctx, rec := newListCtx(e, "skip=4&limit=2")
		require.NoError(t, ListMedicationsHandler(nil, nil, nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"id":5`)
		require.Equal(t, 1, strings.Count(rec.Body.String(), `"id"`))
	})

	t.Run("defaults", func(t *testing.T) {
		t.Cleanup(restore)
		var gotSkip, gotLimit int
		listMedications = func(_ context.Context, _ database.Querier, skip, limit int) ([]model.Medication, error) {
			gotSkip, gotLimit = skip, limit
			return nil, nil
		}
		ctx, rec := newListCtx(e, "")
		require.NoError(t, ListMedicationsHandler(nil, nil, nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
		require.Equal(t, 0, gotSkip)
		require.Equal(t, 100, gotLimit)
	})

	for name, query := range map[string]string{
		"negative skip":  "skip=-1",
		"negative limit": "limit=-5",
		"non integer":    "limit=ten",
	} {
		t.Run(name, func(t *testing.T) {
			t.Cleanup(restore)
			ctx, rec := newListCtx(e, query)
			require.NoError(t, ListMedicationsHandler(nil, nil, nil)(ctx))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), "detail")
		})
	}

	t.Run("storage failure", func(t *testing.T) {
		t.Cleanup(restore)
		listMedications = func(context.Context, database.Querier, int, int) ([]model.Medication, error) {
			return nil, errors.New("db down")
		}
		ctx, rec := newListCtx(e, "")
		require.NoError(t, ListMedicationsHandler(nil, nil, nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("cache fill then hit", func(t *testing.T) {
		t.Cleanup(restore)
		calls := 0
		table := seedTable(3)
		listMedications = func(ctx context.Context, q database.Querier, skip, limit int) ([]model.Medication, error) {
			calls++
			return table.list(ctx, q, skip, limit)
		}
		fc, data := memCache()
		lc := cache.NewMedicationList(fc, time.Minute)
		wp := &syncPool{}
		h := ListMedicationsHandler(nil, lc, wp)

		ctx, first := newListCtx(e, "skip=0&limit=10")
		require.NoError(t, h(ctx))
		require.Equal(t, 1, wp.submitted)
		require.Contains(t, data, "medications:list:0:0:10")

		ctx, second := newListCtx(e, "skip=0&limit=10")
		require.NoError(t, h(ctx))
		require.Equal(t, 1, calls)
		require.JSONEq(t, first.Body.String(), second.Body.String())

		// 新增後世代遞增，下次查詢回到資料庫
		require.NoError(t, lc.Invalidate(context.Background()))
		ctx, _ = newListCtx(e, "skip=0&limit=10")
		require.NoError(t, h(ctx))
		require.Equal(t, 2, calls)
	})

	t.Run("cache errors fall back to storage", func(t *testing.T) {
		t.Cleanup(restore)
		listMedications = seedTable(1).list
		fc := &cache.FakeCache{GetFn: func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("", errors.New("down"))
		}}
		wp := &syncPool{}
		ctx, rec := newListCtx(e, "")
		require.NoError(t, ListMedicationsHandler(nil, cache.NewMedicationList(fc, time.Minute), wp)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"id":1`)
		require.Zero(t, wp.submitted)
	})
}
