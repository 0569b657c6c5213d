package model

// AssembleRequest carries a caller-supplied record set for the standalone
// grouping endpoint, bypassing the fetch stage.
type AssembleRequest struct {
	Records     []Record `json:"records"`
	ParentField string   `json:"parent_field"`
}
