package importer

import "time"

const (
	tableAlwinData    = "tmp_alwin_data"
	tableGitHubRepo   = "tmp_github_repo"
	tableWebAPIClient = "tmp_web_api_client"
	tableJSON         = "tmp_json"
)

type AlwinDataRow struct {
	ID           uint   `gorm:"primaryKey"`
	BatchID      string `gorm:"size:36;index"`
	Mode         string `gorm:"size:32"`
	Station      string
	ReaderID     string
	Location     string
	HTTPCall     string
	JSONResponse string `gorm:"type:text"`
	CreatedAt    time.Time
}

func (AlwinDataRow) TableName() string { return tableAlwinData }

type GitHubRepoRow struct {
	ID           uint   `gorm:"primaryKey"`
	BatchID      string `gorm:"size:36;index"`
	Mode         string `gorm:"size:32"`
	RepositoryID string
	CloneURL     string
	Description  string `gorm:"type:text"`
	FullName     string
	HTMLURL      string
	Name         string
	UserID       string
	UserLogin    string
	URL          string
	CreatedAt    time.Time
}

func (GitHubRepoRow) TableName() string { return tableGitHubRepo }

type WebAPIClientRow struct {
	ID                uint   `gorm:"primaryKey"`
	BatchID           string `gorm:"size:36;index"`
	Mode              string `gorm:"size:32"`
	RepoName          string
	RepoHomePage      string
	RepoGitHubHomeURL string
	RepoDescription   string `gorm:"type:text"`
	RepoWatchers      string
	RepoLastPush      string
	CreatedAt         time.Time
}

func (WebAPIClientRow) TableName() string { return tableWebAPIClient }

type JSONRow struct {
	ID        uint   `gorm:"primaryKey"`
	BatchID   string `gorm:"size:36;index"`
	Mode      string `gorm:"size:32"`
	Text      string `gorm:"type:text"`
	CreatedAt time.Time
}

func (JSONRow) TableName() string { return tableJSON }
