package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chargesol/backend/services/registry-service/internal/station"
	"chargesol/backend/services/registry-service/internal/wizard"
)

type scriptStep struct {
	values map[string]string
	action Action
}

// scriptedPrompter replays canned answers and records the steps it was shown.
type scriptedPrompter struct {
	script    []scriptStep
	seen      []wizard.Step
	summaries []station.Summary
}

func (p *scriptedPrompter) next() (scriptStep, error) {
	if len(p.script) == 0 {
		return scriptStep{}, errors.New("script exhausted")
	}
	s := p.script[0]
	p.script = p.script[1:]
	return s, nil
}

func (p *scriptedPrompter) Fields(_ context.Context, w *wizard.Wizard, values map[string]string) (Action, error) {
	p.seen = append(p.seen, w.Step())
	s, err := p.next()
	if err != nil {
		return ActionCancel, err
	}
	for k, v := range s.values {
		values[k] = v
	}
	return s.action, nil
}

func (p *scriptedPrompter) Review(_ context.Context, summary station.Summary) (Action, error) {
	p.seen = append(p.seen, wizard.StepVerify)
	p.summaries = append(p.summaries, summary)
	s, err := p.next()
	if err != nil {
		return ActionCancel, err
	}
	return s.action, nil
}

var details = map[string]string{
	station.FieldName:    "My Home Charger",
	station.FieldAddress: "123 Main St",
	station.FieldCity:    "Anytown",
	station.FieldState:   "CA",
	station.FieldZip:     "12345",
}

type flakySubmitter struct {
	failures int
	calls    int
}

func (f *flakySubmitter) Submit(_ context.Context, st *station.Station) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("registry unreachable")
	}
	st.ID = "st-1"
	return nil
}

func newSession(policy wizard.Policy, sub wizard.Submitter, p Prompter, out *bytes.Buffer) *session {
	w := wizard.New(wizard.Options{Policy: policy, Submitter: sub})
	return &session{w: w, prompt: p, out: out, logger: zap.NewNop()}
}

func TestSessionHappyPath(t *testing.T) {
	var out bytes.Buffer
	p := &scriptedPrompter{script: []scriptStep{
		{values: details, action: ActionContinue},
		{action: ActionContinue},
		{action: ActionSubmit},
	}}
	sub := &flakySubmitter{}

	st, err := newSession(wizard.GuardedProgression, sub, p, &out).run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "st-1", st.ID)
	assert.Equal(t, []wizard.Step{wizard.StepDetails, wizard.StepSpecs, wizard.StepVerify}, p.seen)
	v, _ := p.summaries[0].Lookup("Price")
	assert.Equal(t, "0.25 SOL per kWh", v)
}

func TestSessionGuardedStaysOnInvalidStep(t *testing.T) {
	var out bytes.Buffer
	invalid := map[string]string{}
	for k, v := range details {
		invalid[k] = v
	}
	invalid[station.FieldName] = "AB"
	p := &scriptedPrompter{script: []scriptStep{
		{values: invalid, action: ActionContinue},
		{values: map[string]string{station.FieldName: "ABC"}, action: ActionContinue},
		{action: ActionCancel},
	}}

	_, err := newSession(wizard.GuardedProgression, &flakySubmitter{}, p, &out).run(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, []wizard.Step{wizard.StepDetails, wizard.StepDetails, wizard.StepSpecs}, p.seen)
	assert.Contains(t, out.String(), "Station name must be at least 3 characters.")
}

func TestSessionUnguardedReportsOnSubmit(t *testing.T) {
	var out bytes.Buffer
	p := &scriptedPrompter{script: []scriptStep{
		{values: map[string]string{station.FieldName: "AB"}, action: ActionContinue},
		{action: ActionContinue},
		{action: ActionSubmit},
		{action: ActionCancel},
	}}
	sub := &flakySubmitter{}

	_, err := newSession(wizard.UnguardedProgression, sub, p, &out).run(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Zero(t, sub.calls)
	assert.Contains(t, out.String(), "name: Station name must be at least 3 characters.")
	assert.Contains(t, out.String(), "zip: ZIP code is required.")
}

func TestSessionRetriesFailedSubmission(t *testing.T) {
	var out bytes.Buffer
	p := &scriptedPrompter{script: []scriptStep{
		{values: details, action: ActionContinue},
		{action: ActionContinue},
		{action: ActionSubmit},
		{action: ActionSubmit},
	}}
	sub := &flakySubmitter{failures: 1}

	st, err := newSession(wizard.GuardedProgression, sub, p, &out).run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sub.calls)
	assert.Equal(t, "st-1", st.ID)
	assert.Contains(t, out.String(), "Submission failed: registry unreachable")
}

func TestSessionCoercionErrorKeepsText(t *testing.T) {
	var out bytes.Buffer
	p := &scriptedPrompter{script: []scriptStep{
		{values: details, action: ActionContinue},
		{values: map[string]string{station.FieldPower: "lots"}, action: ActionContinue},
		{action: ActionBack},
		{action: ActionCancel},
	}}

	s := newSession(wizard.GuardedProgression, &flakySubmitter{}, p, &out)
	_, err := s.run(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Contains(t, out.String(), "Power must be a number.")
	assert.Equal(t, []wizard.Step{wizard.StepDetails, wizard.StepSpecs, wizard.StepSpecs, wizard.StepDetails}, p.seen)
}

func TestSessionUnguardedContinuesPastCoercionError(t *testing.T) {
	var out bytes.Buffer
	p := &scriptedPrompter{script: []scriptStep{
		{values: details, action: ActionContinue},
		{values: map[string]string{station.FieldPower: "lots"}, action: ActionContinue},
		{action: ActionCancel},
	}}

	_, err := newSession(wizard.UnguardedProgression, &flakySubmitter{}, p, &out).run(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Contains(t, out.String(), "Power must be a number.")
	assert.Equal(t, []wizard.Step{wizard.StepDetails, wizard.StepSpecs, wizard.StepVerify}, p.seen)
}

func TestSessionBackFromVerification(t *testing.T) {
	var out bytes.Buffer
	p := &scriptedPrompter{script: []scriptStep{
		{values: details, action: ActionContinue},
		{action: ActionContinue},
		{action: ActionBack},
		{values: map[string]string{station.FieldPower: "50", station.FieldChargerType: "dcFast"}, action: ActionContinue},
		{action: ActionSubmit},
	}}

	st, err := newSession(wizard.GuardedProgression, &flakySubmitter{}, p, &out).run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50.0, st.PowerKW)
	assert.Equal(t, station.ChargerDCFast, st.ChargerType)
}

func TestRunRegisterDryRunPrintsYAML(t *testing.T) {
	var out bytes.Buffer
	p := &scriptedPrompter{script: []scriptStep{
		{values: details, action: ActionContinue},
		{values: map[string]string{station.FieldConnectorTypes: "CCS, Type 2"}, action: ActionContinue},
		{action: ActionSubmit},
	}}

	err := runRegister(context.Background(), registerOptions{dryRun: true}, p, &out, zap.NewNop())
	require.NoError(t, err)

	yamlOut := out.String()
	assert.Contains(t, yamlOut, "name: My Home Charger")
	assert.Contains(t, yamlOut, "power_kw: 7")
	assert.Contains(t, yamlOut, "connectors:\n  - CCS\n  - Type 2")
	assert.NotRegexp(t, `(?m)^id:`, yamlOut)
}

func TestRunRegisterRequiresToken(t *testing.T) {
	err := runRegister(context.Background(), registerOptions{server: "http://localhost:8085"}, &scriptedPrompter{}, &bytes.Buffer{}, zap.NewNop())
	assert.ErrorContains(t, err, "registry token is required")
}
