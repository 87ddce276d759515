package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-sky-raytracer/pkg/loaders"
	"github.com/df07/go-sky-raytracer/pkg/renderer"
)

// Scene types reported by discovery
const (
	TypeBuiltIn = "builtin"
	TypeJSON    = "json"
)

const builtInGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`                 // Unique identifier, accepted by the render API
	Name        string `json:"name"`               // Scene name
	DisplayName string `json:"displayName"`        // UI display name
	Description string `json:"description"`        // Optional description
	Group       string `json:"group"`              // Grouping category
	Type        string `json:"type"`               // "builtin" or "json"
	FilePath    string `json:"filePath,omitempty"` // Path to the scene file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

var builtInDescriptions = map[string]string{
	"default":    "Diffuse, hollow glass and fuzzy metal spheres on a large ground sphere",
	"defocus":    "The default spheres through a wide aperture thin lens",
	"spheregrid": "Field of randomly placed OKLCH-colored spheres around three large spheres",
	"empty":      "No geometry, only the sky gradient",
}

// ListBuiltInScenes returns metadata for every registered built-in scene
func ListBuiltInScenes() []SceneInfo {
	names := Names()
	scenes := make([]SceneInfo, 0, len(names))
	for _, name := range names {
		scenes = append(scenes, SceneInfo{
			ID:          name,
			Name:        name,
			DisplayName: titleCase(name),
			Description: builtInDescriptions[name],
			Group:       builtInGroup,
			Type:        TypeBuiltIn,
		})
	}
	return scenes
}

// ListJSONScenes scans dir for JSON scene files. A missing directory yields
// no scenes; files that fail to parse are skipped.
func ListJSONScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseJSONMetadata(filePath)
		if err != nil {
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseJSONMetadata extracts the name, description and group of a scene file,
// falling back to values derived from the file name
func ParseJSONMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          "json:" + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "JSON Scenes",
		Type:        TypeJSON,
		FilePath:    filePath,
	}

	sceneFile, err := loaders.LoadSceneFile(filePath)
	if err != nil {
		return sceneInfo, err
	}

	if sceneFile.Name != "" {
		sceneInfo.Name = sceneFile.Name
		sceneInfo.DisplayName = sceneFile.Name
	}
	sceneInfo.Description = sceneFile.Description
	if sceneFile.Group != "" {
		sceneInfo.Group = sceneFile.Group
	}

	return sceneInfo, nil
}

// ListAllScenes returns both built-in and JSON scenes from dir, grouped by
// category with the built-in group first
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	jsonScenes, err := ListJSONScenes(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list JSON scenes: %w", err)
	}

	allScenes := append(ListBuiltInScenes(), jsonScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if builtIns, exists := groupMap[builtInGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: builtInGroup, Scenes: builtIns})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// FindScene resolves a scene ID from ListAllScenes into a scene
func FindScene(dir, id string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	if name, ok := strings.CutPrefix(id, "json:"); ok {
		if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
			return nil, fmt.Errorf("invalid scene id %q", id)
		}
		return Load(filepath.Join(dir, name+".json"), cameraOverrides...)
	}
	return Create(id, cameraOverrides...)
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
