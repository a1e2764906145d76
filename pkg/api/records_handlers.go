package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/platinummonkey/gatehouse/pkg/httputil"
	"github.com/platinummonkey/gatehouse/pkg/middleware"
)

var createRecordSchema = httputil.Schema{
	"name": {
		Required: true,
		Kind:     httputil.KindString,
		MinLen:   1,
		MaxLen:   255,
	},
	"notes": {
		Kind:   httputil.KindString,
		MaxLen: 2000,
	},
}

// listRecords handles GET /records with cursor pagination. Paging input is
// taken leniently: bad limits are clamped, never rejected.
func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r)
	if authCtx == nil {
		httputil.WriteAPIError(w, httputil.CodeInternalError, nil)
		return
	}

	params := httputil.ExtractPaginationParams(r.URL.Query())

	offset := 0
	if params.Cursor != "" {
		position, err := httputil.DecodeCursor(params.Cursor)
		if err != nil {
			httputil.WriteAPIError(w, httputil.CodeInvalidRequest, map[string]string{
				"reason": "invalid cursor",
			})
			return
		}
		parsed, ok := parseOffset(position)
		if !ok {
			httputil.WriteAPIError(w, httputil.CodeInvalidRequest, map[string]string{
				"reason": "invalid cursor",
			})
			return
		}
		offset = parsed
	}

	records, next, total := s.records.List(authCtx.OrgID, offset, params.Limit)

	nextCursor := ""
	if next >= 0 {
		nextCursor = httputil.EncodeCursor(strconv.Itoa(next))
	}

	httputil.WriteSuccess(w, httputil.NewPage(records, nextCursor, total))
}

// createRecord handles POST /records with schema validation. Runs inside the
// idempotency gate, so a retried create returns the stored response instead
// of a duplicate record.
func (s *Server) createRecord(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r)
	if authCtx == nil {
		httputil.WriteAPIError(w, httputil.CodeInternalError, nil)
		return
	}

	data, err := createRecordSchema.ValidateBody(r)
	if err != nil {
		var verr *httputil.ValidationError
		if errors.As(err, &verr) {
			httputil.WriteAPIError(w, httputil.CodeInvalidRequest, httputil.FormatValidationError(verr))
			return
		}
		httputil.WriteError(w, err)
		return
	}

	record := &Record{
		ID:        uuid.NewString(),
		OrgID:     authCtx.OrgID,
		Name:      data["name"].(string),
		CreatedBy: authCtx.User.ID,
		CreatedAt: time.Now().UTC(),
	}
	if notes, ok := data["notes"].(string); ok {
		record.Notes = notes
	}

	s.records.Add(record)
	httputil.WriteCreated(w, record)
}

// getRecord handles GET /records/{id}
func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r)
	if authCtx == nil {
		httputil.WriteAPIError(w, httputil.CodeInternalError, nil)
		return
	}

	id := mux.Vars(r)["id"]
	record, ok := s.records.Get(authCtx.OrgID, id)
	if !ok {
		httputil.WriteAPIError(w, httputil.CodeResourceNotFound, nil)
		return
	}

	httputil.WriteSuccess(w, record)
}

// getSubscription handles GET /billing/subscription, the billing-sensitive
// read used to exercise the strictest rate ceiling.
func (s *Server) getSubscription(w http.ResponseWriter, r *http.Request) {
	authCtx := middleware.GetAuthContext(r)
	if authCtx == nil {
		httputil.WriteAPIError(w, httputil.CodeInternalError, nil)
		return
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"orgId":  authCtx.OrgID,
		"plan":   "developer",
		"status": "active",
	})
}
