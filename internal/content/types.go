package content

// LessonID identifies a lesson. IDs are opaque tokens.
type LessonID string

// ModuleID identifies a module.
type ModuleID string

// TemplateID names a session template.
type TemplateID string

// ArcID identifies a multi-module lesson arc.
type ArcID string

// Built-in modules and templates shipped in the seed registry.
const (
	ModuleClarityFoundations   ModuleID = "clarity_foundations"
	ModuleEnergyFoundations    ModuleID = "energy_foundations"
	ModuleComposureFoundations ModuleID = "composure_foundations"
	ModuleCrossTraining        ModuleID = "cross_training"

	TemplateQuick    TemplateID = "quick"
	TemplateStandard TemplateID = "standard"
	TemplateDeep     TemplateID = "deep"
)

// BlockKind is one step of a session template.
type BlockKind string

const (
	BlockCheckIn  BlockKind = "checkin"
	BlockLesson   BlockKind = "lesson"
	BlockElective BlockKind = "elective"
	BlockRecall   BlockKind = "recall"
	BlockCommit   BlockKind = "commit"
)

// AllBlockKinds returns every block kind in canonical order.
func AllBlockKinds() []BlockKind {
	return []BlockKind{BlockCheckIn, BlockLesson, BlockElective, BlockRecall, BlockCommit}
}

// DisplayName returns a human-readable label for the block kind.
func (k BlockKind) DisplayName() string {
	switch k {
	case BlockCheckIn:
		return "Check-in"
	case BlockLesson:
		return "Lesson"
	case BlockElective:
		return "Elective"
	case BlockRecall:
		return "Recall"
	case BlockCommit:
		return "Commit"
	default:
		return string(k)
	}
}

// Source is the authoring origin of a lesson.
type Source string

const (
	SourceCore     Source = "core"
	SourceCoach    Source = "coach"
	SourceResearch Source = "research"
)

// AllSources returns the closed set of lesson sources.
func AllSources() []Source {
	return []Source{SourceCore, SourceCoach, SourceResearch}
}

// Axis is a measured trait dimension. The empty Axis means untagged.
type Axis string

const (
	AxisFocus     Axis = "focus"
	AxisEnergy    Axis = "energy"
	AxisComposure Axis = "composure"
)

// AllAxes returns the closed set of trait axes.
func AllAxes() []Axis {
	return []Axis{AxisFocus, AxisEnergy, AxisComposure}
}

// Cluster is the content grouping an axis maps onto.
type Cluster string

const (
	ClusterClarity   Cluster = "clarity"
	ClusterEnergy    Cluster = "energy"
	ClusterComposure Cluster = "composure"
)

// AllClusters returns the three content clusters.
func AllClusters() []Cluster {
	return []Cluster{ClusterClarity, ClusterEnergy, ClusterComposure}
}

// Lesson is the smallest content unit.
type Lesson struct {
	ID      LessonID `json:"id"`
	Module  ModuleID `json:"module"`
	Title   string   `json:"title"`
	Axis    Axis     `json:"axis,omitempty"`
	Source  Source   `json:"source"`
	Summary string   `json:"summary,omitempty"` // markdown
	Recall  []string `json:"recall,omitempty"`
}

// Module is an ordered bundle of lessons. Order defines default progression.
type Module struct {
	ID      ModuleID   `json:"id"`
	Name    string     `json:"name"`
	Cluster Cluster    `json:"cluster,omitempty"`
	Lessons []LessonID `json:"lessons"`
}

// Template is a named recipe of block kinds and a target duration.
type Template struct {
	ID                      TemplateID  `json:"id"`
	Name                    string      `json:"name"`
	Blocks                  []BlockKind `json:"blocks"`
	ExpectedDurationMinutes int         `json:"expected_duration_minutes"`
}

// LessonBlocks returns how many lesson blocks the template declares.
func (t Template) LessonBlocks() int {
	n := 0
	for _, b := range t.Blocks {
		if b == BlockLesson {
			n++
		}
	}
	return n
}

// Arc is a curated lesson sequence that may span modules.
type Arc struct {
	ID      ArcID      `json:"id"`
	Name    string     `json:"name"`
	Lessons []LessonID `json:"lessons"`
}

// TagTables map lower-case adaptive signals onto modules.
// Vocabulary holds the fine-grained mindpacing words, Signals the coarse axis names.
type TagTables struct {
	Vocabulary map[string]ModuleID `json:"vocabulary"`
	Signals    map[string]ModuleID `json:"signals"`
}

// Data is the serialized form of a registry.
type Data struct {
	Version          int                     `json:"version"`
	DefaultModule    ModuleID                `json:"default_module"`
	Modules          []Module                `json:"modules"`
	Lessons          []Lesson                `json:"lessons"`
	Electives        map[ModuleID][]LessonID `json:"electives,omitempty"`
	GenericElectives []LessonID              `json:"generic_electives,omitempty"`
	Templates        []Template              `json:"templates"`
	Arcs             []Arc                   `json:"arcs,omitempty"`
	Tags             TagTables               `json:"tags"`
}
