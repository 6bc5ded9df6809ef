package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"talentx/internal/common"
)

// ErrorCollector is told about every rejected request that was rate limited.
type ErrorCollector interface {
	IncRateLimited()
}

var collector atomic.Value

type collectorHolder struct {
	c ErrorCollector
}

func SetErrorCollector(c ErrorCollector) {
	collector.Store(collectorHolder{c: c})
}

type errorBody struct {
	Error  string            `json:"error"`
	Code   common.Code       `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes err as a coded JSON error. Uncoded errors become 500s and their
// text is logged, never sent.
func Error(w http.ResponseWriter, err error) {
	var coded *common.Error
	if !errors.As(err, &coded) {
		coded = common.NewError(common.CodeInternal, "internal error", err)
	}
	status := common.HTTPStatus(coded.Code)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", slog.String("code", string(coded.Code)), slog.String("error", err.Error()))
	}
	if coded.Code == common.CodeRateLimited {
		if holder, ok := collector.Load().(collectorHolder); ok && holder.c != nil {
			holder.c.IncRateLimited()
		}
	}
	JSON(w, status, errorBody{Error: coded.Message, Code: coded.Code, Fields: coded.Fields})
}
