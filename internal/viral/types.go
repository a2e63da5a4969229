// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package viral

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ContentType identifies the content dimension a pattern was learned from.
type ContentType int

const (
	// ContentTitle covers title text patterns.
	ContentTitle ContentType = iota
	// ContentThumbnail covers thumbnail descriptor patterns.
	ContentThumbnail
	// ContentStructure covers video structure patterns.
	ContentStructure
	// ContentTiming covers upload timing patterns.
	ContentTiming
	// ContentTopic covers topic selection patterns.
	ContentTopic
)

// String returns the wire name of the content type.
func (t ContentType) String() string {
	switch t {
	case ContentTitle:
		return "title"
	case ContentThumbnail:
		return "thumbnail"
	case ContentStructure:
		return "structure"
	case ContentTiming:
		return "timing"
	case ContentTopic:
		return "topic"
	default:
		return "unknown"
	}
}

// ParseContentType parses a wire name back into a ContentType.
func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(s) {
	case "title":
		return ContentTitle, nil
	case "thumbnail":
		return ContentThumbnail, nil
	case "structure":
		return ContentStructure, nil
	case "timing":
		return ContentTiming, nil
	case "topic":
		return ContentTopic, nil
	default:
		return 0, fmt.Errorf("unknown content type %q", s)
	}
}

// ConfidenceSeed returns the initial confidence assigned to a freshly
// learned pattern of this dimension. Structural patterns start highest
// because their features are the most directly measurable.
func (t ContentType) ConfidenceSeed() float64 {
	switch t {
	case ContentTitle:
		return 0.8
	case ContentThumbnail:
		return 0.7
	case ContentStructure:
		return 0.9
	case ContentTiming:
		return 0.6
	case ContentTopic:
		return 0.8
	default:
		return 0.5
	}
}

// MarshalJSON encodes the content type as its wire name.
func (t ContentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a wire name into the content type.
func (t *ContentType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseContentType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// FieldKind discriminates the value carried by a Field.
type FieldKind int

const (
	// FieldBool is a boolean feature.
	FieldBool FieldKind = iota
	// FieldNum is a numeric feature.
	FieldNum
	// FieldStr is a string feature (matched by exact equality).
	FieldStr
)

// Field is one named feature value in canonical form. It is the common
// currency for fingerprinting and generic inspection of feature sets.
type Field struct {
	Name string
	Kind FieldKind
	Bool bool
	Num  float64
	Str  string
}

func boolField(name string, v bool) Field   { return Field{Name: name, Kind: FieldBool, Bool: v} }
func numField(name string, v float64) Field { return Field{Name: name, Kind: FieldNum, Num: v} }
func intField(name string, v int) Field     { return numField(name, float64(v)) }
func strField(name string, v string) Field  { return Field{Name: name, Kind: FieldStr, Str: v} }

// FeatureSet is the tagged variant carried by a Pattern. Each content
// dimension has its own strongly typed implementation; Fields exposes the
// values in canonical form for fingerprinting and export.
type FeatureSet interface {
	ContentType() ContentType
	Fields() []Field
}

// TitleFeatures describes the viral elements of a title.
type TitleFeatures struct {
	Length         int  `json:"length"`
	WordCount      int  `json:"word_count"`
	HasNumbers     bool `json:"has_numbers"`
	HasCaps        bool `json:"has_caps"`
	HasQuestion    bool `json:"has_question"`
	HasExclamation bool `json:"has_exclamation"`
	UrgencyWords   int  `json:"urgency_words"`
	EmotionWords   int  `json:"emotion_words"`
}

// ContentType implements FeatureSet.
func (TitleFeatures) ContentType() ContentType { return ContentTitle }

// Fields implements FeatureSet.
func (f TitleFeatures) Fields() []Field {
	return []Field{
		intField("length", f.Length),
		intField("word_count", f.WordCount),
		boolField("has_numbers", f.HasNumbers),
		boolField("has_caps", f.HasCaps),
		boolField("has_question", f.HasQuestion),
		boolField("has_exclamation", f.HasExclamation),
		intField("urgency_words", f.UrgencyWords),
		intField("emotion_words", f.EmotionWords),
	}
}

// ThumbnailFeatures describes the viral elements of a thumbnail descriptor.
// Values are passed through from the caller-supplied descriptor; no pixel
// analysis happens here.
type ThumbnailFeatures struct {
	HasFace       bool     `json:"has_face"`
	FaceEmotion   string   `json:"face_emotion"`
	ColorScheme   []string `json:"color_scheme"`
	TextOverlay   bool     `json:"text_overlay"`
	ContrastLevel float64  `json:"contrast_level"`
	Brightness    float64  `json:"brightness"`
}

// ContentType implements FeatureSet.
func (ThumbnailFeatures) ContentType() ContentType { return ContentThumbnail }

// Fields implements FeatureSet.
func (f ThumbnailFeatures) Fields() []Field {
	return []Field{
		boolField("has_face", f.HasFace),
		strField("face_emotion", f.FaceEmotion),
		strField("color_scheme", strings.Join(f.ColorScheme, ",")),
		boolField("text_overlay", f.TextOverlay),
		numField("contrast_level", f.ContrastLevel),
		numField("brightness", f.Brightness),
	}
}

// StructureFeatures describes the viral elements of a video's structure.
type StructureFeatures struct {
	HookDuration    float64 `json:"hook_duration"`
	TotalDuration   float64 `json:"total_duration"`
	SegmentCount    int     `json:"segment_count"`
	HasCliffhanger  bool    `json:"has_cliffhanger"`
	PacingScore     float64 `json:"pacing_score"`
	EngagementPeaks int     `json:"engagement_peaks"`
}

// ContentType implements FeatureSet.
func (StructureFeatures) ContentType() ContentType { return ContentStructure }

// Fields implements FeatureSet.
func (f StructureFeatures) Fields() []Field {
	return []Field{
		numField("hook_duration", f.HookDuration),
		numField("total_duration", f.TotalDuration),
		intField("segment_count", f.SegmentCount),
		boolField("has_cliffhanger", f.HasCliffhanger),
		numField("pacing_score", f.PacingScore),
		intField("engagement_peaks", f.EngagementPeaks),
	}
}

// TimingFeatures describes the viral elements of an upload time.
type TimingFeatures struct {
	Hour        int  `json:"hour"`
	DayOfWeek   int  `json:"day_of_week"`
	IsWeekend   bool `json:"is_weekend"`
	IsPrimeTime bool `json:"is_prime_time"`
	Month       int  `json:"month"`
	Season      int  `json:"season"`
}

// ContentType implements FeatureSet.
func (TimingFeatures) ContentType() ContentType { return ContentTiming }

// Fields implements FeatureSet.
func (f TimingFeatures) Fields() []Field {
	return []Field{
		intField("hour", f.Hour),
		intField("day_of_week", f.DayOfWeek),
		boolField("is_weekend", f.IsWeekend),
		boolField("is_prime_time", f.IsPrimeTime),
		intField("month", f.Month),
		intField("season", f.Season),
	}
}

// TopicFeatures describes the viral elements of a topic selection.
type TopicFeatures struct {
	PrimaryTopic     string  `json:"primary_topic"`
	TopicCount       int     `json:"topic_count"`
	TrendingTopics   int     `json:"trending_topics"`
	EvergreenTopics  int     `json:"evergreen_topics"`
	NicheSpecificity float64 `json:"niche_specificity"`
}

// ContentType implements FeatureSet.
func (TopicFeatures) ContentType() ContentType { return ContentTopic }

// Fields implements FeatureSet.
func (f TopicFeatures) Fields() []Field {
	return []Field{
		strField("primary_topic", f.PrimaryTopic),
		intField("topic_count", f.TopicCount),
		intField("trending_topics", f.TrendingTopics),
		intField("evergreen_topics", f.EvergreenTopics),
		numField("niche_specificity", f.NicheSpecificity),
	}
}

// Pattern is one learned association between a feature set and its
// historical success.
type Pattern struct {
	// ID is the stable fingerprint of ContentType + Elements.
	ID string `json:"pattern_id"`

	// ContentType is the dimension the pattern was extracted from.
	ContentType ContentType `json:"content_type"`

	// Elements is the typed feature set the pattern was learned from.
	Elements FeatureSet `json:"viral_elements"`

	// Metrics holds the performance observation, blended over reuses.
	Metrics map[string]float64 `json:"performance_metrics"`

	// SuccessRate is the learned viral score in [0,1].
	SuccessRate float64 `json:"success_rate"`

	// Confidence is in [0,1]; seeded per dimension, ratchets up on reuse.
	Confidence float64 `json:"confidence_score"`

	// LastUpdated is the time of the most recent observation.
	LastUpdated time.Time `json:"last_updated"`

	// UsageCount is the number of repeat observations of this fingerprint.
	UsageCount int `json:"usage_count"`
}

// Clone returns a deep copy safe to hand across the store boundary.
func (p *Pattern) Clone() *Pattern {
	cp := *p
	cp.Metrics = make(map[string]float64, len(p.Metrics))
	for k, v := range p.Metrics {
		cp.Metrics[k] = v
	}
	return &cp
}

// patternJSON mirrors Pattern for decoding; Elements needs a two-phase
// decode because its concrete type depends on content_type.
type patternJSON struct {
	ID          string             `json:"pattern_id"`
	ContentType ContentType        `json:"content_type"`
	Elements    json.RawMessage    `json:"viral_elements"`
	Metrics     map[string]float64 `json:"performance_metrics"`
	SuccessRate float64            `json:"success_rate"`
	Confidence  float64            `json:"confidence_score"`
	LastUpdated time.Time          `json:"last_updated"`
	UsageCount  int                `json:"usage_count"`
}

// UnmarshalJSON decodes a pattern, dispatching the feature set on content_type.
func (p *Pattern) UnmarshalJSON(data []byte) error {
	var raw patternJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	elements, err := decodeFeatureSet(raw.ContentType, raw.Elements)
	if err != nil {
		return err
	}

	p.ID = raw.ID
	p.ContentType = raw.ContentType
	p.Elements = elements
	p.Metrics = raw.Metrics
	p.SuccessRate = raw.SuccessRate
	p.Confidence = raw.Confidence
	p.LastUpdated = raw.LastUpdated
	p.UsageCount = raw.UsageCount
	return nil
}

// decodeFeatureSet decodes raw JSON into the feature struct for the dimension.
func decodeFeatureSet(t ContentType, raw json.RawMessage) (FeatureSet, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("pattern of type %s has no viral_elements", t)
	}

	switch t {
	case ContentTitle:
		var f TitleFeatures
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("decode title elements: %w", err)
		}
		return f, nil
	case ContentThumbnail:
		var f ThumbnailFeatures
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("decode thumbnail elements: %w", err)
		}
		return f, nil
	case ContentStructure:
		var f StructureFeatures
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("decode structure elements: %w", err)
		}
		return f, nil
	case ContentTiming:
		var f TimingFeatures
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("decode timing elements: %w", err)
		}
		return f, nil
	case ContentTopic:
		var f TopicFeatures
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("decode topic elements: %w", err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown content type %d", t)
	}
}

// Content is the candidate content record supplied by the pipeline.
// All fields are optional; absent dimensions are skipped during learning
// and matching.
type Content struct {
	// Type is a free-form content category label used for trend tracking.
	Type string `json:"type,omitempty"`

	// Title is the candidate title text.
	Title string `json:"title,omitempty"`

	// Thumbnail is the caller-derived thumbnail descriptor.
	Thumbnail *Thumbnail `json:"thumbnail,omitempty"`

	// Structure is the planned video structure.
	Structure *Structure `json:"structure,omitempty"`

	// UploadTime is the planned publish time.
	UploadTime *time.Time `json:"upload_time,omitempty"`

	// Topics are the content topics, most important first.
	Topics []string `json:"topics,omitempty"`
}

// Thumbnail is a caller-supplied thumbnail descriptor.
type Thumbnail struct {
	HasFace        bool     `json:"has_face"`
	FaceEmotion    string   `json:"face_emotion"`
	DominantColors []string `json:"dominant_colors"`
	HasText        bool     `json:"has_text"`
	Contrast       float64  `json:"contrast"`
	Brightness     float64  `json:"brightness"`
}

// Structure describes the planned shape of a video.
type Structure struct {
	HookDuration    float64   `json:"hook_duration"`
	TotalDuration   float64   `json:"total_duration"`
	Segments        []string  `json:"segments"`
	HasCliffhanger  bool      `json:"has_cliffhanger"`
	PacingScore     float64   `json:"pacing_score"`
	EngagementPeaks []float64 `json:"engagement_peaks"`
}

// LearningSession is the audit record produced by one Observe call.
type LearningSession struct {
	SessionID         string             `json:"session_id"`
	Content           Content            `json:"content_data"`
	Performance       map[string]float64 `json:"performance_data"`
	ExtractedPatterns []string           `json:"extracted_patterns"`
	LearningScore     float64            `json:"learning_score"`
	Timestamp         time.Time          `json:"timestamp"`
	Error             string             `json:"error,omitempty"`
}

// PatternMatch is one stored pattern's similarity to a candidate item.
type PatternMatch struct {
	PatternID   string      `json:"pattern_id"`
	ContentType ContentType `json:"content_type"`
	MatchScore  float64     `json:"match_score"`
	SuccessRate float64     `json:"success_rate"`
	Confidence  float64     `json:"confidence"`
}

// Prediction is the result of scoring a candidate item against the store.
type Prediction struct {
	OverallScore     float64        `json:"overall_score"`
	Confidence       float64        `json:"confidence"`
	MatchingPatterns []PatternMatch `json:"matching_patterns"`
	Recommendations  []string       `json:"recommendations"`
	RiskFactors      []string       `json:"risk_factors"`
	Error            string         `json:"error,omitempty"`
}

// LearningMetrics are the engine's cumulative counters.
type LearningMetrics struct {
	PatternsLearned       int64     `json:"patterns_learned"`
	SuccessfulPredictions int64     `json:"successful_predictions"`
	TotalPredictions      int64     `json:"total_predictions"`
	AccuracyRate          float64   `json:"accuracy_rate"`
	LastLearningSession   time.Time `json:"last_learning_session"`
}

// PatternSummary is the compact form of a pattern used in insights.
type PatternSummary struct {
	PatternID   string      `json:"pattern_id"`
	ContentType ContentType `json:"content_type"`
	SuccessRate float64     `json:"success_rate"`
	Confidence  float64     `json:"confidence_score"`
	UsageCount  int         `json:"usage_count"`
	KeyElements []string    `json:"key_elements"`
}

// Trend summarizes recent versus overall performance for a content category.
type Trend struct {
	RecentAverage  float64 `json:"recent_average"`
	OverallAverage float64 `json:"overall_average"`
	Trend          string  `json:"trend"`
	SampleSize     int     `json:"sample_size"`
}

// Insights is the learning system's self-report.
type Insights struct {
	TotalPatterns     int              `json:"total_patterns"`
	LearningMetrics   LearningMetrics  `json:"learning_metrics"`
	TopPatterns       []PatternSummary `json:"top_patterns"`
	PerformanceTrends map[string]Trend `json:"performance_trends"`
	Recommendations   []string         `json:"recommendations"`
}

// Status is the engine's operational snapshot.
type Status struct {
	Status          string          `json:"status"`
	TotalPatterns   int             `json:"total_patterns"`
	LearningMetrics LearningMetrics `json:"learning_metrics"`
	HistoryLength   int             `json:"history_length"`
	StorageBackend  string          `json:"storage_backend"`
	LastSavedAt     time.Time       `json:"last_saved_at"`
}

// Optimization is the result of rewriting content toward learned patterns.
type Optimization struct {
	Content              Content            `json:"optimized_content"`
	ThumbnailSuggestions map[string]string  `json:"thumbnail_suggestions,omitempty"`
	StructureSuggestions map[string]float64 `json:"structure_suggestions,omitempty"`
	Log                  []string           `json:"optimization_log"`
	Prediction           *Prediction        `json:"viral_prediction"`
}

// Snapshot is the full persisted state of an engine.
type Snapshot struct {
	SavedAt  time.Time       `json:"saved_at"`
	Patterns []Pattern       `json:"patterns"`
	Metrics  LearningMetrics `json:"metrics"`
}

// ExportDocument is the portable, self-describing export format.
type ExportDocument struct {
	ExportTimestamp time.Time       `json:"export_timestamp"`
	TotalPatterns   int             `json:"total_patterns"`
	LearningMetrics LearningMetrics `json:"learning_metrics"`
	Patterns        []Pattern       `json:"patterns"`
}

// SnapshotStore is the persistence adapter boundary. Implementations live
// in viral/storage; the engine only sees this interface.
type SnapshotStore interface {
	// SaveSnapshot persists the full engine state.
	SaveSnapshot(ctx context.Context, snap *Snapshot) error

	// LoadSnapshot restores the most recent state. Returns ErrNoSnapshot
	// when nothing has been persisted yet.
	LoadSnapshot(ctx context.Context) (*Snapshot, error)

	// WriteExport writes a portable export document. An empty path selects
	// a timestamped default inside the store's directory. Returns the path
	// actually written.
	WriteExport(ctx context.Context, path string, doc *ExportDocument) (string, error)

	// ReadExport reads a previously exported document.
	ReadExport(ctx context.Context, path string) (*ExportDocument, error)

	// Name identifies the backend ("file", "badger").
	Name() string

	// Close releases backend resources.
	Close() error
}
