package model

// CausalityReport is the ordered diagnostic narrative for one node under
// old-gen heap pressure. Line order is the argument (symptom, GC correlation,
// load attribution, cluster-wide heap consumer, hypothesis) and must be
// preserved by every renderer.
type CausalityReport struct {
	NodeName    string   `json:"node_name"`
	ReportLines []string `json:"report_lines"`
}
