package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/CareerRAG/internal/handlers"
	"github.com/akolanti/CareerRAG/internal/metrics"
	"github.com/akolanti/CareerRAG/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var IndexHandler = Wrap(handlers.IndexHandler)
var ListUniversitiesHandler = Wrap(handlers.ListUniversitiesHandler)
var UploadUniversityHandler = Wrap(handlers.UploadUniversityHandler)
var DeleteUniversityHandler = Wrap(handlers.DeleteUniversityHandler)
var AskHandler = Wrap(handlers.AskHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	re = injectTrace(re)
	//re = rateLimiter(re)
	//if re.badRequest.isBadRequest {
	//	handleBadRequest(re)
	//	return re //stop here if rate limit fails
	//}

	return re
}
