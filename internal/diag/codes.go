package diag

import "fmt"

// Code is a compact numeric diagnostic identifier. Ranges are fixed per
// phase (spec §3.1): PARSE 100-199, IMPORT 200-299, LINK 300-399,
// VALIDATE 400-499, EMIT 500-599, ANALYZE 600-699.
type Code uint16

const (
	Unknown Code = 0

	// PARSE — 100-199
	ParseUnclosedFrontmatter  Code = 101
	ParseTabIndentation       Code = 102
	ParseFileTooLarge         Code = 103
	ParseFrontmatterTooDeep   Code = 104
	ParseUnexpectedToken      Code = 110
	ParseMalformedFrontmatter Code = 111
	ParseUnknownFrontmatterKey Code = 112
	ParseInvalidPropertyType Code = 113
	ParseInvalidConditionExpr Code = 114
	ParseInvalidEffect        Code = 115
	ParseInvalidEntityID      Code = 116
	ParseUnterminatedChoice   Code = 117

	// IMPORT — 200-299
	ImportMissingFile         Code = 201 // declaration: path as written
	ImportCycle               Code = 202 // file-identity: normalized path
	ImportFileStemCollision   Code = 203 // fatal, file-identity
	ImportDepthExceeded       Code = 204 // file-identity
	ImportFileCountExceeded   Code = 205 // fatal, file-identity
	ImportCasingMismatch      Code = 206 // warning, both written+discovered casing
	ImportEmptyPath           Code = 207 // declaration
	ImportAbsolutePath        Code = 208 // declaration
	ImportBadExtension        Code = 209 // declaration
	ImportEscapesRoot         Code = 210 // declaration
	ImportMalformedPath       Code = 211 // declaration
	ImportUnreadableFile      Code = 212 // file-identity
	ImportNotARegularFile     Code = 213 // file-identity
	ImportAmbiguousCasing     Code = 214 // file-identity, fatal

	// LINK — 300-399
	LinkUnresolvedReference   Code = 301
	LinkDuplicateEntity       Code = 302
	LinkDuplicateType         Code = 303
	LinkDuplicateSection      Code = 304
	LinkDuplicateLocation     Code = 305
	LinkDuplicateAction       Code = 306
	LinkDuplicateRule         Code = 307
	LinkDuplicateSequence     Code = 308
	LinkJumpShadowing         Code = 309 // warning
	LinkUnresolvedTrigger     Code = 310
	LinkUnresolvedSelectSource Code = 311
	LinkUnresolvedContainer   Code = 312
	LinkUnresolvedJumpTarget  Code = 313
	LinkUnresolvedHere        Code = 314
	LinkDuplicateChoice       Code = 315
	LinkDuplicatePhase        Code = 316

	// VALIDATE — 400-499
	ValidatePropertyTypeMismatch  Code = 401
	ValidateEnumValueUnknown      Code = 402
	ValidateChoiceNestingTooDeep  Code = 403 // error at depth 4
	ValidateRefTargetTypeMismatch Code = 404
	ValidateNumericOutOfRange     Code = 405
	ValidateUnknownOverrideProp   Code = 406
	ValidateListElementTypeMismatch Code = 407
	ValidateActionTargetConflict  Code = 408
	ValidateWorldStartUnresolved  Code = 409
	ValidateWorldEntryUnresolved  Code = 410
	ValidatePlayerMissingTrait    Code = 411
	ValidateDuplicatePlayer       Code = 412
	ValidateExitConditionInvalid  Code = 413
	ValidateBlockedMessageMismatch Code = 414
	ValidateChoiceNestingWarn     Code = 415 // warning at depth 3
	ValidateSelectAliasTypeMismatch Code = 416

	// EMIT — 500-599
	EmitSlugCollision    Code = 501
	EmitURDFieldOverridden Code = 502 // warning
	EmitInvalidOutputShape Code = 503

	// ANALYZE — 600-699
	AnalyzeReadNeverWritten       Code = 601
	AnalyzeWrittenNeverRead       Code = 602
	AnalyzeUnreachableVariant     Code = 603
	AnalyzeUnreachableThreshold   Code = 604
	AnalyzeCircularDependency     Code = 605
)

var codeNames = map[Code]string{
	ParseUnclosedFrontmatter:   "unclosed frontmatter block",
	ParseTabIndentation:        "tab used for indentation",
	ParseFileTooLarge:          "source file exceeds 1MB limit",
	ParseFrontmatterTooDeep:    "frontmatter nesting exceeds limit",
	ParseUnexpectedToken:       "unexpected token",
	ParseMalformedFrontmatter:  "malformed frontmatter entry",
	ParseUnknownFrontmatterKey: "unrecognised frontmatter key",
	ParseInvalidPropertyType:   "invalid property type",
	ParseInvalidConditionExpr:  "invalid condition expression",
	ParseInvalidEffect:         "invalid effect",
	ParseInvalidEntityID:       "invalid entity identifier",
	ParseUnterminatedChoice:    "unterminated choice block",

	ImportMissingFile:       "imported file not found",
	ImportCycle:             "import cycle detected",
	ImportFileStemCollision: "duplicate file stem in compilation unit",
	ImportDepthExceeded:     "import chain too deep",
	ImportFileCountExceeded: "compilation unit exceeds file count limit",
	ImportCasingMismatch:    "import path casing differs from file on disk",
	ImportEmptyPath:         "empty import path",
	ImportAbsolutePath:      "import path must be relative",
	ImportBadExtension:      "import path must end in .urd.md",
	ImportEscapesRoot:       "import path escapes project root",
	ImportMalformedPath:     "malformed import path",
	ImportUnreadableFile:    "imported file could not be read",
	ImportNotARegularFile:   "imported path is not a regular file",
	ImportAmbiguousCasing:   "ambiguous file casing on case-insensitive filesystem",

	LinkUnresolvedReference:    "unresolved reference",
	LinkDuplicateEntity:        "duplicate entity declaration",
	LinkDuplicateType:          "duplicate type declaration",
	LinkDuplicateSection:       "duplicate section declaration",
	LinkDuplicateLocation:      "duplicate location declaration",
	LinkDuplicateAction:        "duplicate action declaration",
	LinkDuplicateRule:          "duplicate rule declaration",
	LinkDuplicateSequence:      "duplicate sequence declaration",
	LinkJumpShadowing:          "jump target name shadowed by both section and exit",
	LinkUnresolvedTrigger:      "unresolved rule trigger identifier",
	LinkUnresolvedSelectSource: "unresolved select source entity",
	LinkUnresolvedContainer:    "unresolved container reference",
	LinkUnresolvedJumpTarget:   "unresolved jump target",
	LinkUnresolvedHere:         "'here' has no enclosing location",
	LinkDuplicateChoice:        "duplicate choice label in section",
	LinkDuplicatePhase:         "duplicate phase in sequence",

	ValidatePropertyTypeMismatch:    "property comparison type mismatch",
	ValidateEnumValueUnknown:        "enum value not declared",
	ValidateChoiceNestingTooDeep:    "choice nesting exceeds maximum depth",
	ValidateRefTargetTypeMismatch:   "ref target type mismatch",
	ValidateNumericOutOfRange:       "numeric value outside declared range",
	ValidateUnknownOverrideProp:     "entity override references undeclared property",
	ValidateListElementTypeMismatch: "list override element type mismatch",
	ValidateActionTargetConflict:    "action declares both target and target_type",
	ValidateWorldStartUnresolved:    "world.start does not resolve to a location",
	ValidateWorldEntryUnresolved:    "world.entry does not resolve to a sequence",
	ValidatePlayerMissingTrait:      "player entity type missing required trait",
	ValidateDuplicatePlayer:         "duplicate player entity declared",
	ValidateExitConditionInvalid:    "exit condition expression does not type-check",
	ValidateBlockedMessageMismatch:  "blocked message presence inconsistent with guard",
	ValidateChoiceNestingWarn:       "choice nesting approaching maximum depth",
	ValidateSelectAliasTypeMismatch: "select alias used with inconsistent entity type",

	EmitSlugCollision:      "slugification produced a duplicate identifier",
	EmitURDFieldOverridden: "author-supplied urd field overridden",
	EmitInvalidOutputShape: "world document violates output shape",

	AnalyzeReadNeverWritten:     "property read but never written",
	AnalyzeWrittenNeverRead:     "property written but never read",
	AnalyzeUnreachableVariant:   "enum variant set but never tested",
	AnalyzeUnreachableThreshold: "threshold unreachable",
	AnalyzeCircularDependency:   "circular property dependency",
}

// ID renders the stable "URDxxx" string form used in messages and JSON.
func (c Code) ID() string {
	return fmt.Sprintf("URD%03d", uint16(c))
}

// Title returns the short human title registered for c, or "" if unknown.
func (c Code) Title() string {
	return codeNames[c]
}

func (c Code) String() string {
	if t := c.Title(); t != "" {
		return fmt.Sprintf("%s (%s)", c.ID(), t)
	}
	return c.ID()
}

// Phase classifies a code by the compiler phase that owns its range.
func (c Code) Phase() string {
	switch {
	case c >= 100 && c < 200:
		return "parse"
	case c >= 200 && c < 300:
		return "import"
	case c >= 300 && c < 400:
		return "link"
	case c >= 400 && c < 500:
		return "validate"
	case c >= 500 && c < 600:
		return "emit"
	case c >= 600 && c < 700:
		return "analyze"
	default:
		return "unknown"
	}
}
