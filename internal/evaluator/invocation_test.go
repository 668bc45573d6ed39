package evaluator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvocation_ArgsOrderAndFormat(t *testing.T) {
	inv := Invocation{
		Date:                  "2023-05-01",
		PretrainedSuffix:      "sk_mlp",
		Env:                   "metaworld",
		UseOptimalTargetSkill: true,
		NonFunctionality:      "speed",
		NumEval:               8,
	}

	got := inv.Args(55000)
	want := []string{
		"date=2023-05-01",
		"pretrained_suffix=sk_mlp",
		"env=metaworld",
		"use_optimal_target_skill=true",
		"non_functionality=speed",
		"n_eval=8",
		"step=55000",
	}
	require.Equal(t, want, got)
}

func TestInvocation_ArgsStepVariesParamsConstant(t *testing.T) {
	inv := Invocation{Date: "d", Env: "e", NumEval: 1}

	a := inv.Args(50000)
	b := inv.Args(195000)

	require.Equal(t, a[:len(a)-1], b[:len(b)-1], "only step may differ between launches")
	require.Equal(t, "step=50000", a[len(a)-1])
	require.Equal(t, "step=195000", b[len(b)-1])
}

func TestInvocation_ArgsEmptyFieldsRenderedVerbatim(t *testing.T) {
	// Parameters are opaque: empty values are forwarded, not rejected.
	got := Invocation{}.Args(0)
	require.Equal(t, "date=", got[0])
	require.Equal(t, "use_optimal_target_skill=false", got[3])
	require.Equal(t, "n_eval=0", got[5])
	require.Equal(t, "step=0", got[6])
}
