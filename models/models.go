package models

import "time"

// ASRS types recognized by FM Global 8-34.
const (
	ASRSShuttle            = "Shuttle"
	ASRSMiniLoad           = "Mini-Load"
	ASRSHorizontalCarousel = "Horizontal Carousel"

	ContainerClosedTop = "Closed-Top"
	ContainerOpenTop   = "Open-Top"
	ContainerMixed     = "Mixed"

	SystemWet  = "wet"
	SystemDry  = "dry"
	SystemBoth = "both"

	CoverageStandard = "standard"
	CoverageExtended = "extended"
)

// Configuration is the unit of work for the design path. It is validated
// once on entry and read-only through the rest of the pipeline.
type Configuration struct {
	ASRSType          string   `json:"asrs_type" bson:"asrs_type"`
	ContainerType     string   `json:"container_type" bson:"container_type"`
	RackDepthFt       float64  `json:"rack_depth_ft" bson:"rack_depth_ft"`
	RackSpacingFt     float64  `json:"rack_spacing_ft" bson:"rack_spacing_ft"`
	CeilingHeightFt   float64  `json:"ceiling_height_ft" bson:"ceiling_height_ft"`
	AisleWidthFt      float64  `json:"aisle_width_ft" bson:"aisle_width_ft"`
	StorageHeightFt   float64  `json:"storage_height_ft" bson:"storage_height_ft"`
	CommodityTypes    []string `json:"commodity_types" bson:"commodity_types"`
	SystemType        string   `json:"system_type" bson:"system_type"`
	SprinklerCoverage string   `json:"sprinkler_coverage,omitempty" bson:"sprinkler_coverage,omitempty"`
}

// Figure is a retrieved FM Global figure with its filtering attributes.
// Similarity is a distance in [0,1]; lower is better.
type Figure struct {
	ID                   string   `json:"id" bson:"_id"`
	FigureNumber         int      `json:"figure_number" bson:"figure_number"`
	Title                string   `json:"title" bson:"title"`
	Description          string   `json:"description,omitempty" bson:"description,omitempty"`
	ASRSType             string   `json:"asrs_type" bson:"asrs_type"` // specific type or "All"
	ContainerType        string   `json:"container_type,omitempty" bson:"container_type,omitempty"`
	MaxDepthFt           float64  `json:"max_depth_ft,omitempty" bson:"max_depth_ft,omitempty"`
	MaxSpacingFt         float64  `json:"max_spacing_ft,omitempty" bson:"max_spacing_ft,omitempty"`
	Similarity           float64  `json:"similarity" bson:"similarity,omitempty"`
	ApplicableConditions []string `json:"applicable_conditions,omitempty" bson:"-"`
}

// Table is a retrieved design-parameter table. The vector layer stores
// vectorized table content separately and is joined back by TableID.
type Table struct {
	ID                   string                 `json:"id" bson:"_id"`
	TableNumber          int                    `json:"table_number" bson:"table_number"`
	Title                string                 `json:"title" bson:"title"`
	ASRSType             string                 `json:"asrs_type" bson:"asrs_type"` // specific type or "both"
	ProtectionScheme     string                 `json:"protection_scheme" bson:"protection_scheme"`
	DesignParameters     map[string]interface{} `json:"design_parameters,omitempty" bson:"design_parameters,omitempty"`
	SprinklerSpecs       map[string]interface{} `json:"sprinkler_specs,omitempty" bson:"sprinkler_specs,omitempty"`
	Similarity           float64                `json:"similarity" bson:"-"`
	ApplicableConditions []string               `json:"applicable_conditions,omitempty" bson:"-"`
}

// TableVector is one row of the vectorized table-content index.
type TableVector struct {
	ID         string  `json:"id" bson:"_id"`
	TableID    string  `json:"table_id" bson:"table_id"`
	Content    string  `json:"content" bson:"content"`
	Similarity float64 `json:"similarity" bson:"similarity,omitempty"`
}

// TextChunk is a retrieved fragment of the regulatory text.
type TextChunk struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	Section    string    `json:"section,omitempty" bson:"section,omitempty"`
	Title      string    `json:"title,omitempty" bson:"title,omitempty"`
	Content    string    `json:"content" bson:"content"`
	Embedding  []float32 `json:"-" bson:"embedding,omitempty"`
	Similarity float64   `json:"similarity" bson:"similarity,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// Evidence source kinds.
const (
	SourceFigure = "figure"
	SourceTable  = "table"
	SourceText   = "text"
)

// EvidenceRecord is the merged, source-tagged view of a retrieved figure,
// table, or text chunk used as grounding context.
type EvidenceRecord struct {
	Kind                 string   `json:"kind"`
	ID                   string   `json:"id"`
	Title                string   `json:"title,omitempty"`
	Content              string   `json:"content,omitempty"`
	FigureNumber         int      `json:"figure_number,omitempty"`
	TableNumber          int      `json:"table_number,omitempty"`
	Similarity           float64  `json:"similarity"`
	ApplicableConditions []string `json:"applicable_conditions,omitempty"`
}

// RetrievalResult carries the ranked presentation slice plus the full
// filtered figure/table sets for downstream design use.
type RetrievalResult struct {
	Records    []EvidenceRecord `json:"records"`
	Figures    []Figure         `json:"figures"`
	Tables     []Table          `json:"tables"`
	FigureRefs []int            `json:"figure_refs"`
	TableRefs  []int            `json:"table_refs"`
}

// DesignCalculation is derived once per design request and never stored.
type DesignCalculation struct {
	TotalSprinklers    int     `json:"total_sprinklers"`
	SprinklerSpacingFt float64 `json:"sprinkler_spacing_ft"`
	ProtectionScheme   string  `json:"protection_scheme"`
	DesignAreaSqFt     float64 `json:"design_area_sqft"`
	FlowRateGPM        float64 `json:"flow_rate_gpm"`
	PressurePSI        float64 `json:"pressure_psi"`
}

// EquipmentItem is one bill-of-materials line.
type EquipmentItem struct {
	ComponentType string  `json:"component_type"`
	Description   string  `json:"description"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	UnitCost      float64 `json:"unit_cost"`
	TotalCost     float64 `json:"total_cost"`
}

type EquipmentList struct {
	Items []EquipmentItem `json:"items"`
}

type CostBreakdown struct {
	MaterialSubtotal float64 `json:"material_subtotal"`
	LaborCost        float64 `json:"labor_cost"`
	Total            float64 `json:"total"`
}

// CostFactor is one row of the cost-factor collection.
type CostFactor struct {
	ComponentType   string  `json:"component_type" bson:"component_type"`
	FactorName      string  `json:"factor_name" bson:"factor_name"`
	BaseCostPerUnit float64 `json:"base_cost_per_unit" bson:"base_cost_per_unit"`
}

// ValidationResult is computed fresh per request, never cached.
type ValidationResult struct {
	Compliant             bool     `json:"compliant"`
	Violations            []string `json:"violations"`
	Warnings              []string `json:"warnings"`
	RequiredModifications []string `json:"required_modifications"`
}

// Optimization categories and feasibility tiers.
const (
	OptSpacing       = "spacing"
	OptSystemType    = "system-type"
	OptContainerType = "container-type"

	FeasibilityHigh   = "high"
	FeasibilityMedium = "medium"
	FeasibilityLow    = "low"
)

type OptimizationSuggestion struct {
	Category         string         `json:"category"`
	Description      string         `json:"description"`
	EstimatedSavings float64        `json:"estimated_savings"`
	Feasibility      string         `json:"feasibility"`
	Impact           string         `json:"impact"`
	Alternative      *Configuration `json:"alternative,omitempty"`
}

// DesignResult aggregates everything the design path produces.
type DesignResult struct {
	Configuration Configuration            `json:"configuration"`
	Calculation   DesignCalculation        `json:"calculation"`
	Equipment     EquipmentList            `json:"equipment"`
	Cost          CostBreakdown            `json:"cost"`
	Validation    ValidationResult         `json:"validation"`
	Suggestions   []OptimizationSuggestion `json:"suggestions"`
	Summary       string                   `json:"summary"`
	References    []string                 `json:"references"`
}

// Query intents produced by the analyzer.
const (
	IntentDesign       = "design_question"
	IntentCost         = "cost_question"
	IntentCompliance   = "compliance_question"
	IntentOptimization = "optimization_question"
	IntentGeneral      = "general_question"
)

// QueryAnalysis is the analyzer's classification of a free-text query.
type QueryAnalysis struct {
	Intent   string         `json:"intent"`
	Entities []string       `json:"entities"`
	Config   *Configuration `json:"config,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResult is what AnalyzeAndRetrieve hands back to the front door.
type ChatResult struct {
	Answer     string           `json:"answer"`
	Sources    []EvidenceRecord `json:"sources"`
	FigureRefs []int            `json:"figure_refs"`
	TableRefs  []int            `json:"table_refs"`
}

type ChatRequest struct {
	Message string        `json:"message" binding:"required"`
	History []ChatMessage `json:"history,omitempty"`
}

type ChatResponse struct {
	Role       string           `json:"role"`
	Content    string           `json:"content"`
	Sources    []EvidenceRecord `json:"sources,omitempty"`
	FigureRefs []int            `json:"figure_refs,omitempty"`
	TableRefs  []int            `json:"table_refs,omitempty"`
	Timestamp  string           `json:"timestamp"`
}

type ValidateResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

type IngestRequest struct {
	Title   string `json:"title" binding:"required"`
	Section string `json:"section,omitempty"`
	Text    string `json:"text" binding:"required"`
}

type IngestResponse struct {
	ChunksStored     int    `json:"chunks_stored"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
	Status           string `json:"status"`
}
