package model

// DocType is the closed genre classification of a legal submission
type DocType string

const (
	DocClaim     DocType = "claim"     // Initial complaint
	DocAppeal    DocType = "appeal"    // Appeal against a lower-court ruling
	DocAnswer    DocType = "answer"    // Answer to a complaint
	DocCassation DocType = "cassation" // Cassation / extraordinary appeal
	DocDefault   DocType = "default"   // Anything else
)

// ScoreBucket is the qualitative band of the decision score
type ScoreBucket string

const (
	BucketHigh   ScoreBucket = "alta"
	BucketMedium ScoreBucket = "media"
	BucketLow    ScoreBucket = "baja"
)

// RiskLevel is the qualitative band of the outcome probability
type RiskLevel string

const (
	RiskLow    RiskLevel = "bajo"
	RiskMedium RiskLevel = "medio"
	RiskHigh   RiskLevel = "alto"
)

// JudgeProfile is the heuristic guess of which bench the submission fits
type JudgeProfile string

const (
	JudgeFormalist JudgeProfile = "formalista"
	JudgePrinciple JudgeProfile = "garantista"
	JudgeMixed     JudgeProfile = "mixto"
)

// OutcomeModelVersion identifies the heuristic behind OutcomePrediction
const OutcomeModelVersion = "heuristic-outcome/1"

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        string                 `json:"type"`
	Severity    string                 `json:"severity"` // info, warning, critical
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"` // Inputs and the formula that produced the value
}

// PrecedentMatch is one retrieved precedent
type PrecedentMatch struct {
	ID       string            `json:"id"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// PrecedentAlignment is the best-match similarity against prior case law
type PrecedentAlignment struct {
	TopK      int              `json:"topK"`
	BestScore float64          `json:"bestScore"`
	Matches   []PrecedentMatch `json:"matches"`
}

// ComponentWeights is one row of the per-doc-type weight matrix
type ComponentWeights struct {
	Pretension     float64 `json:"pretension" yaml:"pretension"`
	Norm           float64 `json:"norm" yaml:"norm"`
	Motivation     float64 `json:"motivation" yaml:"motivation"`
	Evidence       float64 `json:"evidence" yaml:"evidence"`
	ProceduralRisk float64 `json:"proceduralRisk" yaml:"procedural_risk"`
}

// ScoreBreakdown lists every raw and rescaled term behind the decision score
type ScoreBreakdown struct {
	Pretension         int              `json:"pretension"` // 0/1
	NormCited          int              `json:"normCited"`  // 0/1
	Motivation         int              `json:"motivation"` // 0/1
	Evidence           int              `json:"evidence"`   // 0/1
	ProceduralRisk     float64          `json:"proceduralRisk"`
	Weighted           ComponentWeights `json:"weighted"`           // weight × signal per component
	CoreScore          float64          `json:"coreScore"`          // 0-1
	JurisprudenceScore float64          `json:"jurisprudenceScore"` // 0-1
	CoreContribution   float64          `json:"coreContribution"`   // rescaled to 0-100
	JurisContribution  float64          `json:"jurisContribution"`  // rescaled to 0-100
	BaseScore          float64          `json:"baseScore"`
	TotalPenalties     float64          `json:"totalPenalties"`
	Bonus              float64          `json:"bonus"`
	FinalScore         float64          `json:"finalScore"`
	Signals            []Signal         `json:"signals"`
}

// ScorePenalties lists each capped penalty family
type ScorePenalties struct {
	Weaknesses     float64 `json:"weaknesses"`
	Style          float64 `json:"style"`
	Contradictions float64 `json:"contradictions"`
	Coherence      float64 `json:"coherence"`
	Rhetoric       float64 `json:"rhetoric"`
	Total          float64 `json:"total"`
}

// ScoreWeights records the weights that were actually applied
type ScoreWeights struct {
	Matrix        ComponentWeights `json:"matrix"`
	Core          float64          `json:"core"`
	Jurisprudence float64          `json:"jurisprudence"`
}

// ScoreMeta records how the doc type was resolved and other provenance
type ScoreMeta struct {
	DocType           DocType         `json:"docType"`
	DocTypeSource     string          `json:"docTypeSource"` // explicit, classified, default
	DocTypeConfidence float64         `json:"docTypeConfidence"`
	KeywordScores     map[DocType]int `json:"keywordScores,omitempty"`
	AlignmentPresent  bool            `json:"alignmentPresent"`
	BonusEligible     bool            `json:"bonusEligible"`
}

// DecisionScore is the single explainable 0-100 quality score
type DecisionScore struct {
	Score     float64        `json:"score"`
	Bucket    ScoreBucket    `json:"bucket"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Penalties ScorePenalties `json:"penalties"`
	Bonus     float64        `json:"bonus"`
	Weights   ScoreWeights   `json:"weights"`
	Meta      ScoreMeta      `json:"meta"`
}

// OutcomePrediction is the heuristic success estimate derived from the score
type OutcomePrediction struct {
	Probability  float64      `json:"probability"`
	RiskLevel    RiskLevel    `json:"riskLevel"`
	JudgeProfile JudgeProfile `json:"judgeProfile"`
	KeyFactors   []string     `json:"keyFactors"`
	ModelVersion string       `json:"modelVersion"`
}

// AnalysisRequest is the top-level input contract
type AnalysisRequest struct {
	UserID                         string   `json:"userId"`
	CaseID                         string   `json:"caseId,omitempty"`
	Text                           string   `json:"text"`
	DocType                        string   `json:"docType,omitempty"`
	Jurisdiction                   string   `json:"jurisdiction,omitempty"`
	UseEmbeddingsForContradictions bool     `json:"useEmbeddingsForContradictions,omitempty"`
	MinJurisScore                  *float64 `json:"minJurisScore,omitempty"`
	Spans                          []Span   `json:"spans,omitempty"` // Optional upstream section spans
}

// AnalysisResponse is the complete assessment bundle
type AnalysisResponse struct {
	DocType                string              `json:"docType,omitempty"`
	Jurisdiction           string              `json:"jurisdiction,omitempty"`
	Weaknesses             []Weakness          `json:"weaknesses"`
	StyleFindings          []StyleFinding      `json:"styleFindings"`
	ContradictionReport    ContradictionReport `json:"contradictionReport"`
	SemanticCoherence      CoherenceReport     `json:"semanticCoherence"`
	RhetoricAnalysis       RhetoricReport      `json:"rhetoricAnalysis"`
	JurisprudenceAlignment *PrecedentAlignment `json:"jurisprudenceAlignment"`
	DecisionScore          DecisionScore       `json:"decisionScore"`
	OutcomePrediction      OutcomePrediction   `json:"outcomePrediction"`
	Principles             Principles          `json:"principles"`
}

// Principles documents which core principles were applied
type Principles struct {
	Deterministic bool `json:"deterministic"` // Same input, same output
	Transparent   bool `json:"transparent"`   // Every term of the score is reported
	Advisory      bool `json:"advisory"`      // Assesses drafting quality, never the merits
}

// DefaultPrinciples returns the standard principles
func DefaultPrinciples() Principles {
	return Principles{
		Deterministic: true,
		Transparent:   true,
		Advisory:      true,
	}
}

// EmptyResponse is the fixed response for blank submissions
func EmptyResponse(docType, jurisdiction string) *AnalysisResponse {
	return &AnalysisResponse{
		DocType:             docType,
		Jurisdiction:        jurisdiction,
		Weaknesses:          []Weakness{},
		StyleFindings:       []StyleFinding{},
		ContradictionReport: ContradictionReport{Contradictions: []ContradictionEntry{}},
		SemanticCoherence:   CoherenceReport{Findings: []CoherenceFinding{}},
		RhetoricAnalysis:    RhetoricReport{Findings: []RhetoricFinding{}},
		DecisionScore: DecisionScore{
			Bucket: BucketLow,
			Breakdown: ScoreBreakdown{
				Signals: []Signal{},
			},
			Meta: ScoreMeta{
				DocType:       DocDefault,
				DocTypeSource: "default",
			},
		},
		OutcomePrediction: OutcomePrediction{
			RiskLevel:    RiskHigh,
			JudgeProfile: JudgeMixed,
			KeyFactors:   []string{},
			ModelVersion: OutcomeModelVersion,
		},
		Principles: DefaultPrinciples(),
	}
}
