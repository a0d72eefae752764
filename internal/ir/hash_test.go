package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIR() *IR {
	return &IR{
		Name:             "ConfigClass",
		Kind:             KindFunction,
		ShortDescription: "Acquire a dataset",
		Params: Params{
			NewParam("dataset_name", "str", "name of dataset.", Ptr("mnist")),
			NewParam("tfds_dir", "Optional[str]", "directory to look for models in.", Ptr("~/tensorflow_datasets")),
		},
		Returns: &Param{Name: ReturnName, Typ: "int", Doc: "count"},
	}
}

func TestHashDeterminism(t *testing.T) {
	h1, err := Hash(sampleIR())
	require.NoError(t, err)
	h2, err := Hash(sampleIR())
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "Hash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestHashChangesWithInput(t *testing.T) {
	base := MustHash(sampleIR())

	reordered := sampleIR()
	reordered.Params[0], reordered.Params[1] = reordered.Params[1], reordered.Params[0]

	noDefault := sampleIR()
	noDefault.Params[0].Default = nil

	emptyDefault := sampleIR()
	emptyDefault.Params[0].Default = Ptr("")

	assert.NotEqual(t, base, MustHash(reordered), "param order is significant")
	assert.NotEqual(t, base, MustHash(noDefault))
	assert.NotEqual(t, MustHash(noDefault), MustHash(emptyDefault), "absent and empty defaults differ")
}

func TestShapeHashIgnoresNameAndKind(t *testing.T) {
	a := sampleIR()
	b := sampleIR()
	b.Name = "set_cli_args"
	b.Kind = KindSelf

	ha, err := ShapeHash(a)
	require.NoError(t, err)
	hb, err := ShapeHash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.NotEqual(t, MustHash(a), MustHash(b))
	assert.Equal(t, "ConfigClass", a.Name, "ShapeHash must not mutate its input")
}

func TestHashWithDomainSeparation(t *testing.T) {
	assert.NotEqual(t,
		hashWithDomain("doctrans/ir/v1", []byte("x")),
		hashWithDomain("doctrans/ir/v2", []byte("x")))
}
