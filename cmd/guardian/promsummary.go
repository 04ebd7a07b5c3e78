package main

import (
	"encoding/json"
	"io"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/boshu2/guardian/internal/audit"
)

// writePromSummary exposes audit summary counts in Prometheus text
// exposition format, for scraping by a sidecar rather than wiring Guardian
// itself up as a long-lived /metrics server.
func writePromSummary(cmd *cobra.Command, s audit.Summary) error {
	reg := prometheus.NewRegistry()

	total := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "guardian_audit_decisions_total",
		Help: "Total number of recorded Guardian decisions.",
	})
	total.Set(float64(s.Total))

	allowed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "guardian_audit_decisions_allowed",
		Help: "Number of recorded allow decisions.",
	})
	allowed.Set(float64(s.Allowed))

	denied := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "guardian_audit_decisions_denied",
		Help: "Number of recorded deny decisions.",
	})
	denied.Set(float64(s.Denied))

	reg.MustRegister(total, allowed, denied)

	bySeverity := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "guardian_audit_decisions_by_severity",
		Help: "Recorded deny decisions by severity.",
	}, []string{"severity"})
	for sev, n := range s.BySeverity {
		bySeverity.WithLabelValues(sev).Set(float64(n))
	}
	reg.MustRegister(bySeverity)

	byTool := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "guardian_audit_decisions_by_tool",
		Help: "Recorded decisions by tool name.",
	}, []string{"tool"})
	for tool, n := range s.ByTool {
		byTool.WithLabelValues(tool).Set(float64(n))
	}
	reg.MustRegister(byTool)

	families, err := reg.Gather()
	if err != nil {
		return err
	}

	return writeExpositionText(cmd.OutOrStdout(), families)
}

func writeExpositionText(w io.Writer, families []*dto.MetricFamily) error {
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

func writeJSONSummary(cmd *cobra.Command, s audit.Summary) error {
	return json.NewEncoder(cmd.OutOrStdout()).Encode(s)
}
