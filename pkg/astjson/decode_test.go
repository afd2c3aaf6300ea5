package astjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEnvelope = `{
  "source": "module fib\ntrace { main: a }\npublic_inputs { in: 1 }\nintegrity_constraints { enf a' = a + 1 }",
  "module": {
    "span": {"start": 0, "end": 10},
    "name": "fib",
    "main_trace": [
      {"span": {"start": 11, "end": 30}, "name": "a", "width": 1}
    ],
    "public_inputs": [
      {"span": {"start": 31, "end": 53}, "name": "in", "length": 1}
    ],
    "integrity_constraints": [
      {
        "kind": "constraint",
        "span": {"start": 77, "end": 99},
        "left": {"kind": "next", "span": {"start": 81, "end": 83}, "inner": {"kind": "ident", "span": {"start": 81, "end": 82}, "name": "a"}},
        "right": {
          "kind": "binary", "op": "+", "span": {"start": 86, "end": 91},
          "left": {"kind": "ident", "span": {"start": 86, "end": 87}, "name": "a"},
          "right": {"kind": "int_literal", "span": {"start": 90, "end": 91}, "value": "1"}
        }
      }
    ]
  }
}`

func TestDecodeBuildsModuleShape(t *testing.T) {
	module, source, err := Decode([]byte(sampleEnvelope))
	require.NoError(t, err)

	assert.Equal(t, "fib", module.Name)
	assert.Contains(t, source, "module fib")
	require.Len(t, module.MainTrace, 1)
	assert.Equal(t, "a", module.MainTrace[0].Name)
	assert.EqualValues(t, 1, module.MainTrace[0].Width)

	require.Len(t, module.PublicInputs, 1)
	assert.Equal(t, "in", module.PublicInputs[0].Name)

	require.Len(t, module.IntegrityConstraints, 1)
}

func TestDecodeRejectsMalformedEnvelope(t *testing.T) {
	_, _, err := Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownExpressionKind(t *testing.T) {
	raw := `{"source": "", "module": {"span": {"start":0,"end":0}, "name": "m",
	  "integrity_constraints": [{"kind": "constraint", "span": {"start":0,"end":0},
	    "left": {"kind": "mystery", "span": {"start":0,"end":0}},
	    "right": {"kind": "int_literal", "span": {"start":0,"end":0}, "value": "0"}}]}}`

	_, _, err := Decode([]byte(raw))
	assert.Error(t, err)
}

func TestDecodeConstDeclVector(t *testing.T) {
	raw := `{"source": "", "module": {"span": {"start":0,"end":0}, "name": "m",
	  "constants": [{"span": {"start":0,"end":0}, "name": "cs", "vector": ["1", "2", "3"]}]}}`

	module, _, err := Decode([]byte(raw))
	require.NoError(t, err)
	require.Len(t, module.Constants, 1)
	require.Len(t, module.Constants[0].Vector, 3)
	assert.EqualValues(t, 2, module.Constants[0].Vector[1].Int64())
}

func TestDecodeLetStatement(t *testing.T) {
	raw := `{"source": "", "module": {"span": {"start":0,"end":0}, "name": "m",
	  "integrity_constraints": [
	    {"kind": "let", "span": {"start":0,"end":0}, "name": "z",
	     "value": {"kind": "int_literal", "span": {"start":0,"end":0}, "value": "0"}}
	  ]}}`

	module, _, err := Decode([]byte(raw))
	require.NoError(t, err)
	require.Len(t, module.IntegrityConstraints, 1)
}
