// Package prediction provides the prediction sources scored by the model
// validation. A source returns one predicted value per evaluated observation;
// the validation step turns them into MAE and MAPE.
//
// ForecastEngine scores the forecasts stored alongside the charts. The
// SyntheticEngine is placeholder scaffolding for when no usable forecast
// exists: it perturbs the actual values with seeded noise and says nothing
// about the quality of a real model.
package prediction
