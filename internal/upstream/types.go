package upstream

// RawApp mirrors one provider-shaped application record. Field names follow
// the provider's wire format; the catalog normalizer is responsible for
// reshaping them into the stable internal schema. Unknown provider fields are
// dropped during decoding.
type RawApp struct {
	AppID        string   `json:"appId"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Description  string   `json:"description"`
	Icon         string   `json:"icon"`
	Developer    string   `json:"developer"`
	DeveloperURL string   `json:"developerUrl"`
	Genre        string   `json:"genre"`
	Score        float64  `json:"score"`
	Reviews      int64    `json:"reviews"`
	Size         string   `json:"size"`
	Version      string   `json:"version"`
	Updated      string   `json:"updated"`
	Installs     string   `json:"installs"`
	Screenshots  []string `json:"screenshots"`
	URL          string   `json:"url"`
}
