package dataopt

import "github.com/vmprov/dataopt/codec"

// Info describes how a record was processed. Failed runs carry only
// OriginalType and ErrorTimestamp.
type Info struct {
	OriginalType        string
	Normalized          bool
	MetadataAdded       bool
	ValidationPerformed bool
	ProcessingTimestamp string
	ErrorTimestamp      string
	CacheHit            bool
}

// Result is the envelope returned by Run and LoadAndRun.
type Result struct {
	Success            bool
	Data               any
	Error              string
	ValidationErrors   []string
	ValidationWarnings []string
	Info               Info
	// Err is the typed failure behind Error; it is not serialized.
	Err error
}

// Map renders the result in its wire shape.
func (r Result) Map() map[string]any {
	out := map[string]any{
		"success": r.Success,
		"data":    r.Data,
	}
	if !r.Success {
		out["error"] = r.Error
	}
	if len(r.ValidationErrors) > 0 {
		out["validation_errors"] = r.ValidationErrors
	}
	if len(r.ValidationWarnings) > 0 {
		out["validation_warnings"] = r.ValidationWarnings
	}
	if info := r.Info.Map(r.Success); info != nil {
		out["optimization_info"] = info
	}
	return out
}

// Map renders the info block. It returns nil when nothing was recorded, as
// for inputs that could not be loaded.
func (i Info) Map(success bool) map[string]any {
	if i.OriginalType == "" {
		return nil
	}
	if !success {
		return map[string]any{
			"original_type":   i.OriginalType,
			"error_timestamp": i.ErrorTimestamp,
		}
	}
	return map[string]any{
		"original_type":        i.OriginalType,
		"normalized":           i.Normalized,
		"metadata_added":       i.MetadataAdded,
		"validation_performed": i.ValidationPerformed,
		"processing_timestamp": i.ProcessingTimestamp,
		"cache_hit":            i.CacheHit,
	}
}

// MarshalJSON encodes the wire shape returned by Map.
func (r Result) MarshalJSON() ([]byte, error) {
	return codec.EncodeJSON(r.Map(), false)
}
