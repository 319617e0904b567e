package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go_task_quest/internal/model"
)

// リクエストボディの上限 (アップロード画像の data URL を含む)
const maxBodyBytes = 8 << 20

// DecodeJSONBody はリクエストボディをデコードします。未知のフィールドは拒否する。
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.ErrInvalidInput
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty request body: %w", model.ErrInvalidInput)
		}
		return fmt.Errorf("decode request body: %v: %w", err, model.ErrInvalidInput)
	}
	return nil
}

// ParseUintParam は URL パラメータを正の整数 ID として読む
func ParseUintParam(raw, field string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, model.NewAppError("INVALID_URL_PARAM", "Invalid "+field, field, model.ErrInvalidInput)
	}
	return uint(id), nil
}
