package fertilizer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agromitra/advisory-engine/pkg/errors"
)

// Measurement is one soil test value. Farmers either report a lab number or
// a qualitative level ("low", "medium", "high"), so it unmarshals from both.
type Measurement struct {
	numeric     float64
	isNumeric   bool
	qualitative string
}

// FromValue builds a numeric measurement, mainly for tests and internal use.
func FromValue(v float64) Measurement {
	return Measurement{numeric: v, isNumeric: true}
}

// FromLevel builds a qualitative measurement.
func FromLevel(level string) Measurement {
	return Measurement{qualitative: strings.ToLower(strings.TrimSpace(level))}
}

// UnmarshalJSON accepts either a JSON number or a qualitative string.
func (m *Measurement) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*m = FromValue(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, convErr := strconv.ParseFloat(strings.TrimSpace(s), 64); convErr == nil {
			*m = FromValue(v)
			return nil
		}
		*m = FromLevel(s)
		return nil
	}
	return fmt.Errorf("measurement must be a number or a level string")
}

// resolve turns the measurement into a concrete value against the reference
// band for its nutrient. Qualitative levels map to 0.8×low, the band
// midpoint and 1.2×high. Unknown strings resolve to nothing.
func (m Measurement) resolve(low, high float64) (float64, bool) {
	if m.isNumeric {
		return m.numeric, true
	}
	switch m.qualitative {
	case "low", "l":
		return low * 0.8, true
	case "medium", "med", "m":
		return (low + high) / 2, true
	case "high", "h":
		return high * 1.2, true
	}
	return 0, false
}

// Inputs is one soil test report. N, P, K, PH and EC are mandatory; the
// rest refine the plan when present.
type Inputs struct {
	N  *Measurement `json:"N"`
	P  *Measurement `json:"P"`
	K  *Measurement `json:"K"`
	PH *Measurement `json:"pH"`
	EC *Measurement `json:"EC"`
	S  *Measurement `json:"S,omitempty"`
	Zn *Measurement `json:"Zn,omitempty"`
	Fe *Measurement `json:"Fe,omitempty"`
	Cu *Measurement `json:"Cu,omitempty"`
	Mn *Measurement `json:"Mn,omitempty"`
	B  *Measurement `json:"B,omitempty"`
	OC *Measurement `json:"OC,omitempty"`
}

// Result is the dose plan plus the explanations a farmer reads.
type Result struct {
	Messages []string       `json:"messages"`
	Plan     map[string]int `json:"fertilizer_plan"`
}

// baselineNPK is the recommended N, P2O5 and K2O dose in kg/ha per crop.
var baselineNPK = map[string][3]float64{
	"wheat":   {120, 60, 40},
	"paddy":   {150, 60, 40},
	"maize":   {150, 75, 50},
	"cotton":  {100, 50, 50},
	"mustard": {80, 40, 30},
}

// Nutrient fractions of the common fertilizer products.
const (
	ureaN     = 0.46
	dapN      = 0.18
	dapP2O5   = 0.46
	mopK2O    = 0.60
	gypsumS   = 0.18
	znso4Zn   = 0.21
	boraxB    = 0.11
	compostOC = 0.5
)

type band struct {
	low, high float64
}

var refThresholds = map[string]band{
	"N":  {280, 500},
	"P":  {10, 25},
	"K":  {120, 280},
	"S":  {10, 20},
	"Zn": {0.6, 1.5},
	"Fe": {4.5, 10},
	"Cu": {0.2, 1},
	"Mn": {2, 5},
	"B":  {0.5, 1},
	"OC": {0.5, 0.8},
	"pH": {6.5, 7.5},
	"EC": {0, 4},
}

// SupportedCrops lists the crops a plan can be generated for.
func SupportedCrops() []string {
	return []string{"wheat", "paddy", "maize", "cotton", "mustard"}
}

func resolveOptional(m *Measurement, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	b := refThresholds[key]
	return m.resolve(b.low, b.high)
}

// Recommend computes a fertilizer plan for the given crop from a soil test
// report. Doses fill the gap between the crop's baseline NPK requirement
// and what the soil already holds, with DAP applied first so its nitrogen
// content is credited against the urea dose.
func Recommend(cropName string, inputs Inputs) (Result, error) {
	crop := strings.ToLower(strings.TrimSpace(cropName))
	if _, ok := baselineNPK[crop]; !ok {
		return Result{}, errors.Wrap(errors.CodeInvalidInput, fmt.Sprintf("unsupported crop: %s", crop), nil)
	}

	var missing []string
	for _, field := range []struct {
		name string
		m    *Measurement
	}{{"N", inputs.N}, {"P", inputs.P}, {"K", inputs.K}, {"pH", inputs.PH}, {"EC", inputs.EC}} {
		if field.m == nil {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return Result{}, errors.Wrap(errors.CodeInvalidInput,
			fmt.Sprintf("missing mandatory input(s): %s", strings.Join(missing, ", ")), nil)
	}

	n, _ := resolveOptional(inputs.N, "N")
	p, _ := resolveOptional(inputs.P, "P")
	k, _ := resolveOptional(inputs.K, "K")
	ph, phOK := resolveOptional(inputs.PH, "pH")
	ec, ecOK := resolveOptional(inputs.EC, "EC")

	s, sOK := resolveOptional(inputs.S, "S")
	zn, znOK := resolveOptional(inputs.Zn, "Zn")
	fe, feOK := resolveOptional(inputs.Fe, "Fe")
	cu, cuOK := resolveOptional(inputs.Cu, "Cu")
	mn, mnOK := resolveOptional(inputs.Mn, "Mn")
	b, bOK := resolveOptional(inputs.B, "B")
	oc, ocOK := resolveOptional(inputs.OC, "OC")

	baseline := baselineNPK[crop]
	needN := math.Max(0, baseline[0]-n)
	needP2O5 := math.Max(0, baseline[1]-p)
	needK2O := math.Max(0, baseline[2]-k)

	// Low organic carbon reduces nitrogen use efficiency; salinity limits
	// how much fertilizer the crop can take up at all.
	if ocOK && oc < refThresholds["OC"].low {
		needN *= 1.1
	}
	if ecOK && ec > 4 {
		needN *= 0.8
		needP2O5 *= 0.8
		needK2O *= 0.8
	}

	plan := map[string]int{}
	var messages []string

	nFromDAP := 0.0
	if needP2O5 > 0 {
		dapNeeded := roundUp(needP2O5 / dapP2O5)
		nFromDAP = float64(dapNeeded) * dapN
		plan["DAP_kg/ha"] = dapNeeded
		messages = append(messages, fmt.Sprintf("Apply %d kg/ha DAP because phosphorus is below recommended level for %s.", dapNeeded, cropName))
	}

	if remainingN := math.Max(0, needN-nFromDAP); remainingN > 0 {
		ureaNeeded := roundUp(remainingN / ureaN)
		plan["Urea_kg/ha"] = ureaNeeded
		messages = append(messages, fmt.Sprintf("Apply %d kg/ha Urea because nitrogen is below recommended level for %s.", ureaNeeded, cropName))
	}

	if needK2O > 0 {
		mopNeeded := roundUp(needK2O / mopK2O)
		plan["MOP_kg/ha"] = mopNeeded
		messages = append(messages, fmt.Sprintf("Apply %d kg/ha MOP because potassium is below recommended level for %s.", mopNeeded, cropName))
	}

	if sOK && s < refThresholds["S"].low {
		gypsumNeeded := roundUp((refThresholds["S"].low - s) / gypsumS)
		plan["Gypsum_kg/ha"] = gypsumNeeded
		messages = append(messages, fmt.Sprintf("Apply %d kg/ha Gypsum because soil sulphur is low for %s.", gypsumNeeded, cropName))
	}

	if znOK && zn < refThresholds["Zn"].low {
		znNeeded := roundUp((refThresholds["Zn"].low - zn) / znso4Zn)
		plan["ZnSO4_kg/ha"] = znNeeded
		messages = append(messages, fmt.Sprintf("Apply %d kg/ha Zinc Sulfate because soil zinc is below recommended levels.", znNeeded))
	}

	if bOK && b < refThresholds["B"].low {
		boraxNeeded := roundUp((refThresholds["B"].low - b) / boraxB)
		plan["Borax_kg/ha"] = boraxNeeded
		messages = append(messages, fmt.Sprintf("Apply %d kg/ha Borax because soil boron is below recommended levels.", boraxNeeded))
	}

	if ocOK && oc < refThresholds["OC"].low {
		compostTons := roundUp((refThresholds["OC"].low - oc) / compostOC)
		plan["Compost_kg/ha"] = compostTons * 1000
		messages = append(messages, fmt.Sprintf("Apply approx %d tons/ha Compost/FYM to improve soil organic matter.", compostTons))
	}

	if feOK && fe < refThresholds["Fe"].low {
		messages = append(messages, "Iron low: consider foliar Fe spray because soil Fe is insufficient.")
	}
	if cuOK && cu < refThresholds["Cu"].low {
		messages = append(messages, "Copper low: consider foliar Cu spray because soil Cu is insufficient.")
	}
	if mnOK && mn < refThresholds["Mn"].low {
		messages = append(messages, "Manganese low: consider foliar Mn spray because soil Mn is insufficient.")
	}

	if phOK {
		if ph < 6.0 {
			messages = append(messages, "Soil acidic: apply lime to raise pH.")
		} else if ph > 8.5 {
			messages = append(messages, "Soil alkaline: apply gypsum or acidifying measures to lower pH.")
		}
	}
	if ecOK && ec > 4 {
		messages = append(messages, "High salinity: grow salt-tolerant crops and improve irrigation.")
	}

	return Result{Messages: messages, Plan: plan}, nil
}

func roundUp(x float64) int {
	return int(math.Ceil(x))
}
