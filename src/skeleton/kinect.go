package skeleton

import "strings"

// AzureKinect returns the Azure Kinect body tracking joint table with display colors.
// Recordings produced by the capture tool carry 31 joints, so the trailing joints of
// this table simply have no data in those files.
func AzureKinect() Skeleton {
	return Skeleton{
		Name: "azure-kinect",
		Joints: []Joint{
			{"PELVIS", "navy"}, {"SPINE_NAVAL", "blue"}, {"SPINE_CHEST", "dodgerblue"}, {"NECK", "deepskyblue"},
			{"CLAVICLE_LEFT", "limegreen"}, {"SHOULDER_LEFT", "forestgreen"}, {"ELBOW_LEFT", "mediumseagreen"},
			{"WRIST_LEFT", "seagreen"}, {"HAND_LEFT", "green"}, {"HANDTIP_LEFT", "darkgreen"}, {"THUMB_LEFT", "lightgreen"},
			{"CLAVICLE_RIGHT", "hotpink"}, {"SHOULDER_RIGHT", "red"}, {"ELBOW_RIGHT", "orangered"},
			{"WRIST_RIGHT", "firebrick"}, {"HAND_RIGHT", "darkred"}, {"HANDTIP_RIGHT", "crimson"}, {"THUMB_RIGHT", "salmon"},
			{"HIP_LEFT", "orange"}, {"KNEE_LEFT", "darkorange"}, {"ANKLE_LEFT", "chocolate"}, {"FOOT_LEFT", "saddlebrown"},
			{"HIP_RIGHT", "purple"}, {"KNEE_RIGHT", "mediumpurple"}, {"ANKLE_RIGHT", "darkviolet"}, {"FOOT_RIGHT", "indigo"},
			{"HEAD", "gold"}, {"NOSE", "yellow"}, {"EYE_LEFT", "khaki"}, {"EAR_LEFT", "goldenrod"},
			{"EYE_RIGHT", "khaki"}, {"EAR_RIGHT", "goldenrod"},
		},
	}
}

var namedColors = map[string]string{
	"black":          "000000",
	"white":          "ffffff",
	"gray":           "808080",
	"navy":           "000080",
	"blue":           "0000ff",
	"royalblue":      "4169e1",
	"dodgerblue":     "1e90ff",
	"deepskyblue":    "00bfff",
	"limegreen":      "32cd32",
	"forestgreen":    "228b22",
	"mediumseagreen": "3cb371",
	"seagreen":       "2e8b57",
	"green":          "008000",
	"darkgreen":      "006400",
	"lightgreen":     "90ee90",
	"hotpink":        "ff69b4",
	"red":            "ff0000",
	"orangered":      "ff4500",
	"firebrick":      "b22222",
	"darkred":        "8b0000",
	"crimson":        "dc143c",
	"salmon":         "fa8072",
	"tomato":         "ff6347",
	"orange":         "ffa500",
	"darkorange":     "ff8c00",
	"chocolate":      "d2691e",
	"saddlebrown":    "8b4513",
	"purple":         "800080",
	"mediumpurple":   "9370db",
	"darkviolet":     "9400d3",
	"indigo":         "4b0082",
	"gold":           "ffd700",
	"yellow":         "ffff00",
	"khaki":          "f0e68c",
	"goldenrod":      "daa520",
}

// ResolveColor maps a named color or a 6-digit hex string to lowercase "rrggbb".
func ResolveColor(c string) (string, bool) {
	c = strings.ToLower(strings.TrimSpace(c))
	if hex, ok := namedColors[c]; ok {
		return hex, true
	}
	c = strings.TrimPrefix(c, "#")
	if len(c) != 6 {
		return "", false
	}
	for _, r := range c {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')) {
			return "", false
		}
	}
	return c, true
}
