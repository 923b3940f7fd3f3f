package main

import (
	"github.com/whisper-project/whisper/config"
	"github.com/whisper-project/whisper/pipeline"
	"github.com/whisper-project/whisper/policy"
	"github.com/whisper-project/whisper/replay"
	"github.com/whisper-project/whisper/store/memory"
)

// buildPipeline constructs a Pipeline wired to fresh in-memory
// collaborators, loading policy flags from configPath (or the
// built-in defaults if configPath is empty).
func buildPipeline(configPath string) (*pipeline.Pipeline, *memory.DirectSigningOracle, error) {
	var flags policy.Flags
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, nil, err
		}
		flags = cfg.Policy.ToFlags()
	}

	policyStore := memory.NewPolicyStore()
	if err := policyStore.SetFlags(flags); err != nil {
		return nil, nil, err
	}

	oracle := memory.NewDirectSigningOracle()

	p := &pipeline.Pipeline{
		Gate:   policy.NewGate(policyStore),
		Guard:  replay.NewGuard(),
		Oracle: oracle,
	}
	return p, oracle, nil
}
