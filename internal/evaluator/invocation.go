// Package evaluator builds and launches external checkpoint-evaluation
// processes.
package evaluator

import (
	"fmt"
	"strconv"
)

// Invocation holds the parameters forwarded to every evaluator launch.
//
// All fields are opaque to this package: they are rendered verbatim as
// key=value arguments and never validated or interpreted. The checkpoint
// step is intentionally absent; it varies per launch and is injected by
// Args.
type Invocation struct {
	// Date selects the training run the checkpoints belong to.
	Date string `yaml:"date" json:"date"`

	// PretrainedSuffix selects the pretrained model variant.
	PretrainedSuffix string `yaml:"pretrained_suffix" json:"pretrained_suffix"`

	// Env is the evaluation environment name.
	Env string `yaml:"env" json:"env"`

	// UseOptimalTargetSkill toggles oracle skill transitions during rollout.
	UseOptimalTargetSkill bool `yaml:"use_optimal_target_skill" json:"use_optimal_target_skill"`

	// NonFunctionality tags the non-functional requirement under evaluation.
	NonFunctionality string `yaml:"non_functionality" json:"non_functionality"`

	// NumEval is the number of evaluation episodes per checkpoint.
	NumEval int `yaml:"n_eval" json:"n_eval"`
}

// Args renders the argument vector for one launch in a fixed order, with
// step last. The order is part of the operator-facing surface (it is what
// shows up in process listings), so it must stay stable.
func (inv Invocation) Args(step int) []string {
	return []string{
		"date=" + inv.Date,
		"pretrained_suffix=" + inv.PretrainedSuffix,
		"env=" + inv.Env,
		"use_optimal_target_skill=" + strconv.FormatBool(inv.UseOptimalTargetSkill),
		"non_functionality=" + inv.NonFunctionality,
		fmt.Sprintf("n_eval=%d", inv.NumEval),
		fmt.Sprintf("step=%d", step),
	}
}
