package qskema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rangeQuery struct {
	Min *float64 `query:"min"`
	Max *float64 `query:"max"`
}

func rangeSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := New(requiredEngine, F("min", opt(sNumber)), F("max", opt(sNumber)))
	require.NoError(t, err)
	return s
}

func TestRefine_CrossFieldCheck(t *testing.T) {
	maxTok := FieldOf[rangeQuery](func(q *rangeQuery) **float64 { return &q.Max })
	base := rangeSchema(t)
	s := RefineStruct(base, func(ctx context.Context, q rangeQuery) error {
		if *q.Min > *q.Max {
			return Issues{maxTok.Issue(CodeTooSmall, "max must not be below min")}
		}
		return nil
	}, RefineOpt{WhenSeen: []string{"min", "max"}})
	ctx := context.Background()

	_, err := s.Parse(ctx, "min=5&max=1")
	iss, ok := AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, []string{"max"}, iss[0].Path)

	_, err = s.Parse(ctx, "min=1&max=5")
	require.NoError(t, err)

	// gated: only one bound present
	_, err = s.Parse(ctx, "min=5")
	require.NoError(t, err)

	// the base schema is unchanged
	_, err = base.Parse(ctx, "min=5&max=1")
	require.NoError(t, err)
}

func TestRefine_SeenAnyAndPlainErrors(t *testing.T) {
	calls := 0
	s := rangeSchema(t).Refine(func(ctx context.Context, rec Record) error {
		calls++
		return errors.New("range not allowed")
	}, RefineOpt{WhenSeen: []string{"min", "max"}, WhenSeenMode: SeenAny})
	ctx := context.Background()

	_, err := s.Parse(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 0, calls)

	_, err = s.Parse(ctx, "max=3")
	iss, ok := AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, 1, calls)
	assert.Equal(t, CodeCustom, iss[0].Code)
	assert.Equal(t, []string{}, iss[0].Path)
	assert.Equal(t, "range not allowed", iss[0].Message)
}

func TestRefine_PhasesAndFailFast(t *testing.T) {
	var order []string
	rule := func(name string, fail bool) RefineFunc {
		return func(ctx context.Context, rec Record) error {
			order = append(order, name)
			if fail {
				return Issues{{Code: CodeCustom, Message: name}}
			}
			return nil
		}
	}
	s := rangeSchema(t).
		Refine(rule("ctx", false), RefineOpt{Phase: PhaseContext}).
		Refine(rule("d1", true)).
		Refine(rule("d2", true))
	ctx := context.Background()

	_, err := s.Parse(ctx, "")
	iss, _ := AsIssues(err)
	assert.Equal(t, []string{"d1", "d2"}, order, "context rules wait for domain rules")
	require.Len(t, iss, 2)
	assert.Equal(t, []string{}, iss[0].Path)

	order = nil
	_, err = s.Parse(WithFailFast(ctx, true), "")
	iss, _ = AsIssues(err)
	assert.Equal(t, []string{"d1"}, order)
	assert.Len(t, iss, 1)

	order = nil
	ok := rangeSchema(t).Refine(rule("d", false)).Refine(rule("ctx", false), RefineOpt{Phase: PhaseContext})
	_, err = ok.Parse(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "ctx"}, order)
}

func TestRefine_ValidateTreatsNonNilAsSeen(t *testing.T) {
	s := rangeSchema(t).Refine(func(ctx context.Context, rec Record) error {
		return errors.New("both bounds given")
	}, RefineOpt{WhenSeen: []string{"min", "max"}})
	ctx := context.Background()

	_, err := s.Validate(ctx, Record{"min": 1.0})
	require.NoError(t, err)
	_, err = s.Validate(ctx, Record{"min": 1.0, "max": 2.0})
	require.Error(t, err)
}

type quotaService struct{ limit float64 }

func TestRefine_ContextService(t *testing.T) {
	s := rangeSchema(t).Refine(func(ctx context.Context, rec Record) error {
		svc, err := RequireService[*quotaService](ctx)
		if err != nil {
			return err
		}
		if m, _ := rec["max"].(float64); m > svc.limit {
			return Issues{IssueAt("max", CodeTooBig, "over quota", map[string]any{"maximum": svc.limit})}
		}
		return nil
	}, RefineOpt{Phase: PhaseContext})

	_, err := s.Parse(context.Background(), "max=10")
	iss, ok := AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, CodeDependencyUnavailable, iss[0].Code)

	ctx := WithService(context.Background(), &quotaService{limit: 5})
	_, err = s.Parse(ctx, "max=10")
	iss, _ = AsIssues(err)
	require.Len(t, iss, 1)
	assert.Equal(t, "over quota", iss[0].Message)

	_, err = s.Parse(ctx, "max=3")
	require.NoError(t, err)

	got, ok := Service[*quotaService](ctx)
	assert.True(t, ok)
	assert.Equal(t, 5.0, got.limit)
	_, ok = Service[string](ctx)
	assert.False(t, ok)
}

func TestFieldOf(t *testing.T) {
	minTok := FieldOf[rangeQuery](func(q *rangeQuery) **float64 { return &q.Min })
	maxTok := FieldOf[rangeQuery](func(q *rangeQuery) **float64 { return &q.Max })
	assert.Equal(t, "min", minTok.Key())
	assert.Equal(t, []string{"min", "max"}, Keys(minTok, maxTok))

	assert.Panics(t, func() { FieldOf[rangeQuery, float64](nil) })
	assert.Panics(t, func() {
		var other float64
		FieldOf[rangeQuery](func(*rangeQuery) *float64 { return &other })
	})
}
