package checkers

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/embedding"
	"github.com/jonathan/resume-scorer/internal/textutil"
	"github.com/jonathan/resume-scorer/internal/types"
)

var fixedNow = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

// similarityEmbedder returns two vectors whose cosine equals sim.
type similarityEmbedder struct{ sim float64 }

func (s similarityEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (s similarityEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		if i%2 == 0 {
			out[i] = []float32{1, 0}
		} else {
			out[i] = []float32{float32(s.sim), float32(math.Sqrt(1 - s.sim*s.sim))}
		}
	}
	return out, nil
}

func (s similarityEmbedder) Model() string { return "fixed" }

func TestDefault_AllResultsWithinBounds(t *testing.T) {
	inputs := []*Input{
		{},
		{Profile: &types.CandidateProfile{}, Job: &types.JobRequirement{}, Layout: &types.LayoutMetadata{}},
		{
			Profile: &types.CandidateProfile{
				Skills:     []types.Skill{{Name: "Go"}},
				Experience: []types.WorkExperience{{Company: "A", Title: "Engineer", StartDate: "garbage", EndDate: "???"}},
			},
			Job:            &types.JobRequirement{Text: "the and of"},
			Layout:         &types.LayoutMetadata{HasTables: true, HasImages: true, FontNames: []string{"A", "B", "C", "D"}, FontSizes: []float64{9.5}},
			ResumeText:     "!!!",
			ExperienceText: "$5M 10% 200 users 3x 5 projects 40% 12 clients",
			ContactText:    "linkedin.com/in/x github.com/x",
		},
	}
	for _, in := range inputs {
		in.Now = fixedNow
		for _, c := range Default(Deps{Semantic: NewSemanticFit(embedding.NewHashing(64), nil)}) {
			r := c.Check(context.Background(), in)
			assert.Equal(t, c.Category(), r.Category, c.Name())
			assert.GreaterOrEqual(t, r.RawScore, 0.0, c.Name())
			assert.LessOrEqual(t, r.RawScore, r.MaxPoints, c.Name())
			assert.Equal(t, c.Category().MaxPoints(), r.MaxPoints, c.Name())
		}
	}
}

func TestCheckFileLayout(t *testing.T) {
	r := CheckFileLayout(context.Background(), &Input{Layout: &types.LayoutMetadata{HasTables: true, HasImages: true}})
	assert.Equal(t, 10.0, r.RawScore)
	assert.Equal(t, []string{"Tables detected - may break ATS parsers", "Images/graphics detected - avoid visual elements"}, r.Feedback)

	clean := CheckFileLayout(context.Background(), &Input{})
	assert.Equal(t, 20.0, clean.RawScore)
}

func TestCheckFontConsistency(t *testing.T) {
	tests := []struct {
		name   string
		layout types.LayoutMetadata
		want   float64
	}{
		{"standard single font", types.LayoutMetadata{FontNames: []string{"Calibri"}, FontSizes: []float64{11, 14}}, 10},
		{"too many fonts", types.LayoutMetadata{FontNames: []string{"Arial", "Calibri", "Georgia", "Helvetica"}}, 7},
		{"non-standard font", types.LayoutMetadata{FontNames: []string{"Comic Sans"}}, 8},
		{"small body text", types.LayoutMetadata{FontNames: []string{"Arial"}, FontSizes: []float64{9.5}}, 8},
		{"all penalties", types.LayoutMetadata{FontNames: []string{"A", "B", "C", "D"}, FontSizes: []float64{12.5}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := tt.layout
			r := CheckFontConsistency(context.Background(), &Input{Layout: &layout})
			assert.Equal(t, tt.want, r.RawScore)
		})
	}
}

func TestCheckReadability(t *testing.T) {
	neutral := CheckReadability(context.Background(), &Input{ResumeText: ""})
	assert.Equal(t, 7.0, neutral.RawScore)

	simple := CheckReadability(context.Background(), &Input{ResumeText: "I ran. He sat. We ate."})
	assert.Equal(t, 8.0, simple.RawScore)

	dense := CheckReadability(context.Background(), &Input{
		ResumeText: "Comprehensive organizational transformation initiatives necessitate interdisciplinary collaboration.",
	})
	assert.Equal(t, 6.0, dense.RawScore)
	assert.Contains(t, dense.Feedback, "Consider simplifying complex sentences")
}

func TestCheckProfessionalLanguage(t *testing.T) {
	strong := CheckProfessionalLanguage(context.Background(), &Input{
		Bullets: []string{"• Led a team", "Built the API", "Reduced costs", "Designed schema", "Improved uptime"},
	})
	assert.Equal(t, 10.0, strong.RawScore)

	weak := CheckProfessionalLanguage(context.Background(), &Input{
		Bullets: []string{"Was on a team", "Helped with tests", "Did things"},
	})
	assert.Equal(t, 6.0, weak.RawScore)
	assert.Equal(t, []string{"Use more action verbs (currently 0%)"}, weak.Feedback)

	buzzy := CheckProfessionalLanguage(context.Background(), &Input{
		ResumeText: "Motivated, passionate, dynamic team player and self-starter",
	})
	assert.Equal(t, 6.0, buzzy.RawScore)
	require.Len(t, buzzy.Feedback, 1)
	assert.Contains(t, buzzy.Feedback[0], "Reduce buzzwords: ")
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"01/2020", "Jan 2020", "January 2020", "2020", "2020-01", "Sept 2020"} {
		_, ok := ParseDate(s, fixedNow)
		assert.True(t, ok, s)
	}
	got, ok := ParseDate("Present", fixedNow)
	assert.True(t, ok)
	assert.Equal(t, fixedNow, got)

	_, ok = ParseDate("someday", fixedNow)
	assert.False(t, ok)
}

func TestCheckDateConsistency(t *testing.T) {
	consistent := &Input{Profile: &types.CandidateProfile{Experience: []types.WorkExperience{
		{Title: "A", StartDate: "01/2018", EndDate: "12/2019"},
		{Title: "B", StartDate: "01/2020"},
	}}}
	assert.Equal(t, 5.0, CheckDateConsistency(context.Background(), consistent).RawScore)

	mixed := &Input{Profile: &types.CandidateProfile{Experience: []types.WorkExperience{
		{Title: "A", StartDate: "01/2018", EndDate: "Dec 2019"},
	}}}
	r := CheckDateConsistency(context.Background(), mixed)
	assert.Equal(t, 2.0, r.RawScore)
	assert.Equal(t, []string{"Inconsistent date formatting - use same format throughout"}, r.Feedback)
}

func TestCheckEmploymentGaps_FourteenMonthGap(t *testing.T) {
	in := &Input{Now: fixedNow, Profile: &types.CandidateProfile{Experience: []types.WorkExperience{
		{Company: "Beta", Title: "Engineer", StartDate: "Mar 2021", EndDate: "Present"},
		{Company: "Alpha", Title: "Engineer", StartDate: "Jan 2018", EndDate: "Jan 2020"},
	}}}
	r := CheckEmploymentGaps(context.Background(), in)
	assert.LessOrEqual(t, r.RawScore, 7.0)
	assert.Equal(t, 7.0, r.RawScore)
	assert.Equal(t, []string{"1 employment gap(s) > 6 months detected"}, r.Feedback)
}

func TestCheckEmploymentGaps_ManyGapsFloorAtZero(t *testing.T) {
	var work []types.WorkExperience
	for y := 2000; y < 2020; y += 2 {
		work = append(work, types.WorkExperience{Title: "X", StartDate: time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006"), EndDate: time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")})
	}
	r := CheckEmploymentGaps(context.Background(), &Input{Now: fixedNow, Profile: &types.CandidateProfile{Experience: work}})
	assert.Equal(t, 0.0, r.RawScore)
}

func TestCheckCareerProgression(t *testing.T) {
	none := CheckCareerProgression(context.Background(), &Input{})
	assert.Equal(t, 0.0, none.RawScore)
	assert.Equal(t, []string{"No work experience listed"}, none.Feedback)

	short := CheckCareerProgression(context.Background(), &Input{Now: fixedNow, Profile: &types.CandidateProfile{
		Experience: []types.WorkExperience{{Company: "A", Title: "Engineer", StartDate: "Jan 2024"}},
	}})
	assert.Equal(t, 3.0, short.RawScore)
	assert.Contains(t, short.Feedback[0], "Limited experience (0.4 years)")

	promoted := CheckCareerProgression(context.Background(), &Input{Now: fixedNow, Profile: &types.CandidateProfile{
		Experience: []types.WorkExperience{
			{Company: "Acme", Title: "Engineer", StartDate: "Jan 2015", EndDate: "Jan 2018"},
			{Company: "Acme", Title: "Senior Engineer", StartDate: "Jan 2018"},
		},
	}})
	assert.Equal(t, 5.0, promoted.RawScore, "bonus is clamped to the category ceiling")
	assert.Contains(t, promoted.Feedback, "Career progression: 1 promotion(s) detected")

	flat := CheckCareerProgression(context.Background(), &Input{Now: fixedNow, Profile: &types.CandidateProfile{
		Experience: []types.WorkExperience{
			{Company: "A", Title: "Engineer", StartDate: "2010", EndDate: "2013"},
			{Company: "B", Title: "Engineer", StartDate: "2013", EndDate: "2016"},
			{Company: "C", Title: "Engineer", StartDate: "2016"},
		},
	}})
	assert.Equal(t, 4.0, flat.RawScore)
}

func TestTotalYears(t *testing.T) {
	work := []types.WorkExperience{
		{StartDate: "Jan 2018", EndDate: "Jan 2020"},
		{StartDate: "nonsense", EndDate: "Jan 2021"},
	}
	assert.Equal(t, 2.0, TotalYears(work, fixedNow))
}

func TestProgressionPattern(t *testing.T) {
	assert.Equal(t, 0.0, ProgressionPercent([]int{2}))
	assert.Equal(t, 80.0, ProgressionPercent([]int{1, 2, 3}))
	assert.Equal(t, 60.0, ProgressionPercent([]int{2, 3, 2}))
	assert.Equal(t, 40.0, ProgressionPercent([]int{2, 2}))
	assert.Equal(t, 20.0, ProgressionPercent([]int{3, 1}))

	assert.Equal(t, 1, TitleLevel("Software Intern"))
	assert.Equal(t, 3, TitleLevel("Lead Engineer"))
	assert.Equal(t, 2, TitleLevel("Barista"))

	in := &Input{Now: fixedNow, Profile: &types.CandidateProfile{Experience: []types.WorkExperience{
		{Title: "Senior Engineer", StartDate: "2020"},
		{Title: "Junior Developer", StartDate: "2016"},
	}}}
	r := CheckProgressionPattern(context.Background(), in)
	assert.Equal(t, 4.0, r.RawScore, "80% of the 5-point ceiling")
}

func TestImpactPattern(t *testing.T) {
	assert.Equal(t, 5, CountImpactSignals("Cut costs 20% and saved $3M; 3x faster; 500 users; 10 increase"))
	r := CheckImpactPattern(context.Background(), &Input{ExperienceText: "Grew revenue 15%"})
	assert.Equal(t, 5.0, r.RawScore)
}

func TestCheckQuantifiedImpact(t *testing.T) {
	empty := CheckQuantifiedImpact(context.Background(), &Input{})
	assert.Equal(t, 0.0, empty.RawScore)
	assert.Equal(t, []string{"No experience section to analyze"}, empty.Feedback)

	strong := CheckQuantifiedImpact(context.Background(), &Input{ExperienceText: "10% 20% $5M 300 users 12 clients"})
	assert.Equal(t, 10.0, strong.RawScore)
	assert.Equal(t, []string{"Strong quantification: 5 metrics found"}, strong.Feedback)

	some := CheckQuantifiedImpact(context.Background(), &Input{ExperienceText: "Improved latency by 30%"})
	assert.Equal(t, 6.0, some.RawScore)

	narrative := CheckQuantifiedImpact(context.Background(), &Input{
		ExperienceText: "Developed internal tooling for the platform team and worked closely with product managers on the roadmap for several releases.",
	})
	assert.Equal(t, 5.0, narrative.RawScore)
}

func TestCheckOnlinePresence(t *testing.T) {
	full := CheckOnlinePresence(context.Background(), &Input{ContactText: "https://LinkedIn.com/in/jane | github.com/jane"})
	assert.Equal(t, 5.0, full.RawScore)

	portfolio := CheckOnlinePresence(context.Background(), &Input{ContactText: "jane@example.com, portfolio: jane.dev"})
	assert.Equal(t, 2.0, portfolio.RawScore)
	assert.Equal(t, []string{"Add LinkedIn profile URL", "Portfolio/website included"}, portfolio.Feedback)

	none := CheckOnlinePresence(context.Background(), &Input{})
	assert.Equal(t, 0.0, none.RawScore)
}

func TestCheckKeywordAlignment_MatchingSkills(t *testing.T) {
	in := &Input{
		Job:        &types.JobRequirement{Text: "Python Django SQL developer"},
		ResumeText: "Python Django SQL developer building web backends",
	}
	r := CheckKeywordAlignment(context.Background(), in)
	assert.InDelta(t, 15.0, r.RawScore, 0.01)
	require.NotNil(t, r.Details)
	assert.Contains(t, r.Details.MatchedTechnical, "python")
	assert.Empty(t, r.Details.Missing)
}

func TestCheckKeywordAlignment_PunctuatedJD(t *testing.T) {
	// N-grams run across the commas, so "python django" and friends count as
	// missing technical terms even though every listed skill is present.
	in := &Input{
		Job:        &types.JobRequirement{Text: "Required: Python, Django, AWS, PostgreSQL."},
		ResumeText: "Backend developer skilled in Python, Django, AWS and PostgreSQL.",
	}
	r := CheckKeywordAlignment(context.Background(), in)
	require.NotNil(t, r.Details)
	assert.ElementsMatch(t, []string{"python", "django", "aws", "postgresql"}, r.Details.MatchedTechnical)
	assert.Len(t, r.Details.MissingTechnical, 7)
	assert.NotContains(t, r.Details.MissingTechnical, "required")
	// 4 of 12 JD terms matched, 4/11 technical: critical ladder, 1/3 × 15 × 0.2.
	assert.InDelta(t, 1.0, r.RawScore, 1e-9)
	assert.Equal(t, []string{"CRITICAL MISMATCH: Only 4/11 technical skills matched"}, r.Feedback)
}

func TestCheckKeywordAlignment_StructuredJobWithoutText(t *testing.T) {
	in := &Input{
		Job:        &types.JobRequirement{Title: "Backend Engineer", RequiredSkills: []string{"Python", "Django", "AWS"}},
		ResumeText: "Mechanical Engineering, CAD, SolidWorks",
	}
	r := CheckKeywordAlignment(context.Background(), in)
	assert.Less(t, r.RawScore, 3.0)
	require.NotEmpty(t, r.Feedback)
	assert.Contains(t, r.Feedback[0], "CRITICAL MISMATCH")

	semantic := NewSemanticFit(similarityEmbedder{sim: 0.99}, nil).Check(context.Background(), in)
	assert.Less(t, semantic.RawScore, 4.0)
}

func TestCheckKeywordAlignment_DisjointSkills(t *testing.T) {
	in := &Input{
		Job:        &types.JobRequirement{Text: "Python Django AWS developer"},
		ResumeText: "Mechanical Engineering, CAD, SolidWorks",
	}
	r := CheckKeywordAlignment(context.Background(), in)
	assert.Less(t, r.RawScore, 3.0)
	require.NotEmpty(t, r.Feedback)
	assert.Contains(t, r.Feedback[0], "CRITICAL MISMATCH")
}

func TestCheckKeywordAlignment_NoJD(t *testing.T) {
	r := CheckKeywordAlignment(context.Background(), &Input{ResumeText: "anything"})
	assert.Equal(t, 15.0, r.RawScore)

	stops := CheckKeywordAlignment(context.Background(), &Input{ResumeText: "the and", Job: &types.JobRequirement{Text: "of the"}})
	assert.Equal(t, 7.5, stops.RawScore)
}

func TestIsTechnicalTerm(t *testing.T) {
	jd := "You will work with Kubernetes and our Platform tooling. Responsibilities include on-call."
	assert.True(t, IsTechnicalTerm("python", jd))
	assert.True(t, IsTechnicalTerm("c#", jd))
	assert.True(t, IsTechnicalTerm("kubernetes", jd))
	assert.True(t, IsTechnicalTerm("platform", jd))
	assert.False(t, IsTechnicalTerm("responsibilities", jd), "sentence-initial capitals do not count")
	assert.False(t, IsTechnicalTerm("maintain", jd), "short vocabulary entries match whole words only")
	assert.False(t, IsTechnicalTerm("leadership", jd))
	assert.False(t, IsTechnicalTerm("experience", jd))
}

func TestCheckSkillContext(t *testing.T) {
	none := CheckSkillContext(context.Background(), &Input{})
	assert.Equal(t, 0.0, none.RawScore)

	in := &Input{
		Profile:        &types.CandidateProfile{Skills: []types.Skill{{Name: "Python"}, {Name: "Django"}, {Name: "SQL"}}},
		ExperienceText: "Built Django services in Python backed by SQL databases.",
	}
	r := CheckSkillContext(context.Background(), in)
	assert.GreaterOrEqual(t, r.RawScore, 4.0)
	assert.Equal(t, []string{"Strong skill context: 3/3 skills demonstrated"}, r.Feedback)

	listed := CheckSkillContext(context.Background(), &Input{
		Profile:        &types.CandidateProfile{Skills: []types.Skill{{Name: "Rust"}, {Name: "Haskell"}, {Name: "Elixir"}, {Name: "OCaml"}}},
		ExperienceText: "Wrote reports.",
	})
	assert.Equal(t, 2.5, listed.RawScore)
}

func TestSemanticFit_EmptyInputs(t *testing.T) {
	s := NewSemanticFit(nil, nil)
	noJD := s.Score(context.Background(), "resume text", "")
	assert.Equal(t, 20.0, noJD.RawScore)
	assert.Empty(t, noJD.Feedback)

	noResume := s.Score(context.Background(), "", "Python developer")
	assert.Equal(t, 0.0, noResume.RawScore)
}

func TestSemanticFit_CriticalMismatchShortCircuits(t *testing.T) {
	s := NewSemanticFit(similarityEmbedder{sim: 0.99}, nil)
	r := s.Score(context.Background(), "Mechanical engineer using CAD", "Python Django AWS developer")
	assert.Equal(t, 0.0, r.RawScore)
	require.Len(t, r.Feedback, 1)
	assert.Contains(t, r.Feedback[0], "Critical mismatch - missing: aws")
}

func TestSemanticFit_StrongMatchBoost(t *testing.T) {
	s := NewSemanticFit(similarityEmbedder{sim: 0.8}, nil)
	r := s.Score(context.Background(), "Python Django AWS developer with ten years", "Python Django AWS developer")
	assert.InDelta(t, 19.2, r.RawScore, 1e-4)
	assert.Equal(t, []string{"Strong match (80% semantic, 100% keywords)"}, r.Feedback)
}

func TestSemanticFit_BoostClampedToCeiling(t *testing.T) {
	s := NewSemanticFit(similarityEmbedder{sim: 1}, nil)
	r := s.Score(context.Background(), "Python Django AWS developer", "Python Django AWS developer")
	assert.Equal(t, 20.0, r.RawScore)
}

type stubRelevance struct {
	value float64
	err   error
	calls int
}

func (s *stubRelevance) Relevance(context.Context, string, string) (float64, error) {
	s.calls++
	return s.value, s.err
}

func TestSemanticFit_MultiplierBands(t *testing.T) {
	const jd = "Python Django AWS developer"
	// JD terms: python, django, aws, developer, python django, django aws, aws developer.
	tests := []struct {
		name     string
		resume   string
		want     float64
		feedback string
	}{
		{
			name:     "moderate band scales by rate plus offset",
			resume:   "Python Django engineer",
			want:     0.8 * 20 * (3.0/7 + 0.3),
			feedback: "Good match (80% semantic, 43% keywords)",
		},
		{
			name:     "weak band halves similarity",
			resume:   "Python developer",
			want:     0.8 * 20 * 0.5,
			feedback: "Weak match (80%) - wrong role fit",
		},
	}
	s := NewSemanticFit(similarityEmbedder{sim: 0.8}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := s.Score(context.Background(), tt.resume, jd)
			assert.InDelta(t, tt.want, r.RawScore, 1e-4)
			assert.Equal(t, []string{tt.feedback}, r.Feedback)
		})
	}
}

func TestSemanticFit_ModerateBandFloor(t *testing.T) {
	const jd = "Python Django Python AWS Kubernetes"
	// 8 terms; python, django and "python django" give a rate of 3/8, so
	// rate+0.3 falls under the 0.7 floor.
	s := NewSemanticFit(similarityEmbedder{sim: 0.5}, nil)
	r := s.Score(context.Background(), "Python Django engineer", jd)
	assert.InDelta(t, 0.5*20*0.7, r.RawScore, 1e-4)
}

func TestSemanticFit_EmbeddingFailureUsesTFIDF(t *testing.T) {
	const jd = "Python Django AWS developer"
	const resume = "Python Django AWS developer with ten years"
	sim, err := textutil.TFIDFSimilarity(jd, resume, 100)
	require.NoError(t, err)

	r := NewSemanticFit(embedding.Unavailable{}, nil).Score(context.Background(), resume, jd)
	assert.InDelta(t, sim*20*1.2, r.RawScore, 1e-9)
	assert.Greater(t, r.RawScore, 7.0)
	assert.NotContains(t, r.Feedback, "Semantic analysis failed")
}

func TestSemanticFit_EmbeddingFailureUsesFallbackRelevance(t *testing.T) {
	rel := &stubRelevance{value: 0.75}
	s := NewSemanticFit(embedding.Unavailable{}, nil).WithFallback(rel)
	r := s.Score(context.Background(), "Python Django AWS developer with ten years", "Python Django AWS developer")
	assert.InDelta(t, 0.75*20*1.2, r.RawScore, 1e-9)
	assert.Equal(t, 1, rel.calls)
	assert.Equal(t, []string{"Strong match (75% semantic, 100% keywords)"}, r.Feedback)
}

func TestSemanticFit_AllSimilarityFails(t *testing.T) {
	rel := &stubRelevance{err: errors.New("offline")}
	s := NewSemanticFit(embedding.Unavailable{}, nil).WithFallback(rel)
	r := s.Score(context.Background(), "Python Django AWS developer", "Python Django AWS developer")
	assert.Equal(t, 5.0, r.RawScore)
	assert.Equal(t, []string{"Semantic analysis failed"}, r.Feedback)
}
