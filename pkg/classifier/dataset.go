package classifier

import "github.com/wadjakorntonsri/moodsync/pkg/core/domain"

// Class names indexed by label.
var Labels = [2]string{"normal", "overweight"}

// FallbackSamples is used when the remote training data cannot be fetched.
var FallbackSamples = []domain.Sample{
	{Height: 170, Weight: 85, Label: 1},
	{Height: 160, Weight: 70, Label: 1},
	{Height: 180, Weight: 100, Label: 1},
	{Height: 175, Weight: 90, Label: 1},
	{Height: 165, Weight: 80, Label: 1},
	{Height: 170, Weight: 60, Label: 0},
	{Height: 160, Weight: 50, Label: 0},
	{Height: 180, Weight: 70, Label: 0},
	{Height: 175, Weight: 65, Label: 0},
	{Height: 165, Weight: 55, Label: 0},
}
