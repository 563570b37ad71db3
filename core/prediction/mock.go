package prediction

// MockEngine returns configured predictions per forecast key.
type MockEngine struct {
	Predictions map[string][]float64
	Err         error
}

// Predict returns the configured slice for the key, padded with missing
// values, or only missing values for unknown keys.
func (m MockEngine) Predict(req Request) ([]float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]float64, len(req.Eval))
	cfg := m.Predictions[req.Key.String()]
	for i := range out {
		if i < len(cfg) {
			out[i] = cfg[i]
		} else {
			out[i] = Missing()
		}
	}
	return out, nil
}
