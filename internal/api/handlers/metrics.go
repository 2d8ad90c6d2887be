package handlers

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var documentsGenerated atomic.Int64

// IncDocumentsGenerated bumps the process-local generation counter.
func IncDocumentsGenerated() {
	documentsGenerated.Add(1)
}

type MetricsHandler struct{}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// Export writes a minimal Prometheus-compatible text exposition.
func (h *MetricsHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "# HELP recurso_up Is the server up\n")
	fmt.Fprintf(w, "# TYPE recurso_up gauge\n")
	fmt.Fprintf(w, "recurso_up 1\n")
	fmt.Fprintf(w, "# HELP recurso_documents_generated_total Documents generated since start\n")
	fmt.Fprintf(w, "# TYPE recurso_documents_generated_total counter\n")
	fmt.Fprintf(w, "recurso_documents_generated_total %d\n", documentsGenerated.Load())
}
