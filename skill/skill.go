// Package skill provides the skill registry that supplies instruction
// documents to the prediction engine.
//
// Skills are Markdown documents with YAML frontmatter:
//
//	---
//	name: categorization
//	description: Classify tickets into ITSM categories.
//	---
//
//	# Categorization Guidelines
//	...
//
// The registry follows a progressive disclosure pattern: discovery scans
// read only frontmatter metadata, and the full instruction body is loaded
// and cached the first time a skill is actually used. This keeps the
// context cost of a skill proportional to its use, not its existence.
package skill

import "strings"

// Skill is the metadata for one discovered skill. The instruction body is
// loaded separately via the registry's Content method.
type Skill struct {
	// Name uniquely identifies the skill within the registry's active set.
	Name string `json:"name"`

	// Description states what the skill does and when to apply it. Task
	// filtering matches keywords against this field.
	Description string `json:"description"`

	// Approved indicates the skill is part of the visible set. Discovery
	// only surfaces approved skills.
	Approved bool `json:"approved"`

	// Path is the source file, kept for lazy content loading.
	Path string `json:"path"`
}

// TaskType identifies one of the three prediction dimensions.
type TaskType string

const (
	TaskCategorization TaskType = "categorization"
	TaskRouting        TaskType = "routing"
	TaskResolution     TaskType = "resolution"
)

// CoreSkillNames are the skills composed into every prediction prompt, in
// precedence order. Discovered skills outside this set are treated as
// learned skills and appended as supplementary guidance.
var CoreSkillNames = []string{"ticket-parser", "categorization", "routing", "resolution"}

// IsCoreSkill reports whether name is one of the core skill names.
func IsCoreSkill(name string) bool {
	for _, core := range CoreSkillNames {
		if name == core {
			return true
		}
	}
	return false
}

var taskKeywords = map[TaskType][]string{
	TaskCategorization: {"categoriz", "classif", "type"},
	TaskRouting:        {"rout", "assign", "team", "group"},
	TaskResolution:     {"resolv", "solution", "fix", "answer"},
}

// ForTask filters skills to those whose description matches the keyword
// set for the given task type. Matching is a case-insensitive substring
// test. Unknown task types match nothing.
func ForTask(skills []*Skill, taskType TaskType) []*Skill {
	keywords := taskKeywords[TaskType(strings.ToLower(string(taskType)))]
	var relevant []*Skill
	for _, s := range skills {
		desc := strings.ToLower(s.Description)
		for _, kw := range keywords {
			if strings.Contains(desc, kw) {
				relevant = append(relevant, s)
				break
			}
		}
	}
	return relevant
}
