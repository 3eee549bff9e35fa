package transform

import (
	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
)

// Built-in action ids.
const (
	ActionConvertKeyframesToSamples  = "convert-keyframes-to-samples"
	ActionConvertLocalFilesToWebURLs = "convert-local-files-to-web-urls"
	ActionDownloadURLs               = "download-urls"
	ActionConvertVideoFramesToImages = "convert-video-frames-to-images"
	ActionSplitImagesIntoSegments    = "split-image-samples-into-segments"
	ActionCombineSegmentsIntoImages  = "combine-segments-into-image-samples"
	ActionRemoveInvalidSamples       = "remove-invalid-samples"
)

// PluginActionPrefix prefixes the id of every plugin action.
const PluginActionPrefix = "plugin:"

// Action is one selectable entry of the transform menu.
type Action struct {
	ID    string
	Label string

	Capability  CapabilityKind
	Requirement Predicate
	// Override replaces the derived enablement when set.
	Override Predicate

	// Plugin is set for plugin actions.
	Plugin *PluginRef
	// Conflict marks plugin actions whose name is registered more than once.
	Conflict bool
}

// IsPlugin reports whether the action opens the plugin dialog.
func (a Action) IsPlugin() bool {
	return a.Plugin != nil
}

// DesktopOnly reports whether the action is gated on a desktop environment.
func (a Action) DesktopOnly() bool {
	return a.Capability == CapabilityDesktopOnly
}

// builtinActions is the fixed presentation order of the built-in menu.
var builtinActions = []Action{
	{
		ID:       ActionConvertKeyframesToSamples,
		Label:    "Convert Video Keyframes to Samples",
		Override: RequireInterfaceType(dataset.InterfaceVideoSegmentation),
	},
	{
		ID:         ActionConvertLocalFilesToWebURLs,
		Label:      "Transform Local Files to Web URLs",
		Capability: CapabilityDesktopOnly,
	},
	{
		ID:         ActionDownloadURLs,
		Label:      "Download URLs",
		Capability: CapabilityDesktopOnly,
	},
	{
		ID:         ActionConvertVideoFramesToImages,
		Label:      "Convert Video Frames to Images",
		Capability: CapabilityDesktopOnly,
	},
	{
		ID:    ActionSplitImagesIntoSegments,
		Label: "Split Image Samples into Segments",
	},
	{
		ID:    ActionCombineSegmentsIntoImages,
		Label: "Combine Segments into Image Samples",
	},
	{
		ID:    ActionRemoveInvalidSamples,
		Label: "Remove Invalid Samples",
	},
}

// BuiltinActions returns a copy of the built-in actions in menu order.
func BuiltinActions() []Action {
	return append([]Action(nil), builtinActions...)
}

// BuiltinIDs returns the built-in action ids in menu order.
func BuiltinIDs() []string {
	ids := make([]string, len(builtinActions))
	for i, a := range builtinActions {
		ids[i] = a.ID
	}
	return ids
}

func isBuiltinID(id string) bool {
	for _, a := range builtinActions {
		if a.ID == id {
			return true
		}
	}
	return false
}
