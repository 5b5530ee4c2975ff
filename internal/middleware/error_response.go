package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/newsbrief/internal/model"
)

// errorBody は{error}形式のエラーレスポンス。要約・ソーシャル系APIで使用する。
type errorBody struct {
	Error string `json:"error"`
}

// detailBody は{detail}形式のエラーレスポンス。認証系APIで使用する。
type detailBody struct {
	Detail string `json:"detail"`
}

// WriteJSONResponse は任意の値をJSONレスポンスとして書き込む。
func WriteJSONResponse(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// WriteErrorResponse は{error}形式でエラーレスポンスを書き込む。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	WriteJSONResponse(w, statusCode, errorBody{Error: message})
}

// WriteDetailResponse は{detail}形式でエラーレスポンスを書き込む。
func WriteDetailResponse(w http.ResponseWriter, statusCode int, detail string) {
	WriteJSONResponse(w, statusCode, detailBody{Detail: detail})
}

// WriteDomainError はドメインエラーを種別に応じたHTTPレスポンスに変換する。
//   - ValidationError → 400 {error}
//   - AuthError → 401 {detail}
//   - 上記以外 → operationとともにログへ記録し、500 {error}
func WriteDomainError(w http.ResponseWriter, logger *slog.Logger, operation string, err error) {
	var valErr *model.ValidationError
	if errors.As(err, &valErr) {
		WriteErrorResponse(w, http.StatusBadRequest, valErr.Message)
		return
	}

	var authErr *model.AuthError
	if errors.As(err, &authErr) {
		WriteDetailResponse(w, http.StatusUnauthorized, authErr.Message)
		return
	}

	logger.Error("unexpected error",
		"operation", operation,
		"error", err,
	)
	WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error")
}
