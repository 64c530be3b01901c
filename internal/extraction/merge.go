package extraction

// DeepMerge copies src into dst. Nested objects present on both sides are
// merged recursively; any other value in src replaces the one in dst. dst is
// modified in place and returned.
func DeepMerge(src, dst map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		existing, ok := dst[k].(map[string]any)
		if !ok {
			existing = map[string]any{}
		}
		dst[k] = DeepMerge(sub, existing)
	}
	return dst
}

// DefaultSummary is the all-blank case summary that model output is merged
// onto, so every section is present even when the model omits it.
func DefaultSummary() map[string]any {
	const na = ""
	return map[string]any{
		"case_title_info": map[string]any{
			"case_name":    na,
			"case_number":  na,
			"court_name":   na,
			"jurisdiction": na,
			"citations":    na,
		},
		"parties_involved": map[string]any{
			"petitioner":           na,
			"respondent":           na,
			"advocates_petitioner": na,
			"advocates_respondent": na,
		},
		"dates": map[string]any{
			"date_of_judgment": na,
			"date_of_filing":   na,
		},
		"sections_invoked": na,
		"legal_issues":     []any{},
		"final_judgment":   na,
	}
}
