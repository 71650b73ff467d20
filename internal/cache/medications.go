package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"medtrack/internal/model"

	"github.com/redis/go-redis/v9"
)

// 清單快取的 key 內含世代號，新增藥品時遞增世代即可讓舊的分頁全部失效
const medicationsGenerationKey = "medications:generation"

// MedicationList 快取 GET /medications/ 的分頁結果
type MedicationList struct {
	c   Cache
	ttl time.Duration
}

func NewMedicationList(c Cache, ttl time.Duration) *MedicationList {
	return &MedicationList{c: c, ttl: ttl}
}

// Key 依目前世代組出分頁的快取 key
func (l *MedicationList) Key(ctx context.Context, skip, limit int) (string, error) {
	gen, err := l.c.Get(ctx, medicationsGenerationKey).Result()
	if errors.Is(err, redis.Nil) {
		gen = "0"
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("medications:list:%s:%d:%d", gen, skip, limit), nil
}

// Get 讀取快取；ok 為 false 表示未命中
func (l *MedicationList) Get(ctx context.Context, key string) (meds []model.Medication, ok bool, err error) {
	raw, err := l.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(raw, &meds); err != nil {
		return nil, false, err
	}
	return meds, true, nil
}

func (l *MedicationList) Set(ctx context.Context, key string, meds []model.Medication) error {
	raw, err := json.Marshal(meds)
	if err != nil {
		return err
	}
	return l.c.Set(ctx, key, raw, l.ttl).Err()
}

// Invalidate 遞增世代號
func (l *MedicationList) Invalidate(ctx context.Context) error {
	return l.c.Incr(ctx, medicationsGenerationKey).Err()
}
