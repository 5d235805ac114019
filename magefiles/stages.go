//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// sampleContract is a small service agreement used by the smoke targets.
const sampleContract = `SERVICE AGREEMENT

This Agreement is made between Acme Traders Pvt Ltd ("Client") and
Quickship Logistics LLP ("Provider").

1. Term. This Agreement starts on 1 April 2026 and renews automatically every
year unless either party gives ninety days written notice.
2. Payment. The Client shall pay each invoice within 90 days. Late payment
carries no interest.
3. Liability. The Client shall indemnify the Provider against all losses of
any kind, without limit.
4. Governing Law. This Agreement is governed by the laws of India and the
courts at Mumbai have exclusive jurisdiction.
5. Dispute Resolution. Disputes shall be settled by arbitration in Mumbai.
`

var samplePath = filepath.Join("contracts", "sample.txt")

// Sample writes contracts/sample.txt for the smoke targets.
func Sample() error {
	if err := os.MkdirAll(filepath.Dir(samplePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(samplePath, []byte(sampleContract), 0o644)
}

// Segment prints the clauses of the sample contract.
func Segment() error {
	mg.Deps(Build, Sample)
	return sh.RunV(binPath, "segment", samplePath)
}

// Reformat writes the sample contract as a service agreement template to output/.
func Reformat() error {
	mg.Deps(Build, Sample)
	return sh.RunV(binPath, "reformat", samplePath, "--template", "service", "--write", "--output-dir", "output")
}

// Analyze runs a full risk analysis of the sample contract. Needs an API key
// in .secrets/ or .env.
func Analyze() error {
	mg.Deps(Build, Sample)
	out := filepath.Join("output", "sample-analysis.yaml")
	if err := sh.RunV(binPath, "analyze", samplePath, "--out", out); err != nil {
		return err
	}
	fmt.Printf("Analysis written to %s\n", out)
	return nil
}
