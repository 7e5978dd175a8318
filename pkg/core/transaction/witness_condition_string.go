package transaction

import (
	"fmt"
	"strconv"

	"github.com/r3e-network/neokit/pkg/neoerr"
)

var conditionTypeNames = map[WitnessConditionType]string{
	WitnessBoolean:          "Boolean",
	WitnessNot:              "Not",
	WitnessAnd:              "And",
	WitnessOr:               "Or",
	WitnessScriptHash:       "ScriptHash",
	WitnessGroup:            "Group",
	WitnessCalledByEntry:    "CalledByEntry",
	WitnessCalledByContract: "CalledByContract",
	WitnessCalledByGroup:    "CalledByGroup",
}

func (i WitnessConditionType) String() string {
	if s, ok := conditionTypeNames[i]; ok {
		return s
	}
	return "WitnessConditionType(" + strconv.FormatInt(int64(i), 10) + ")"
}

func witnessConditionTypeFromString(s string) (WitnessConditionType, error) {
	for t, name := range conditionTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", neoerr.ErrUnknownConditionType, s)
}
