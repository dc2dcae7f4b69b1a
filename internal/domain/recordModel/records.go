package recordModel

// ExpectedColumns is the fixed positional schema of every career-services CSV.
// There is no semantic header row - the names are assigned by position.
var ExpectedColumns = []string{
	"rec_id", "uni_id", "uni_name", "dept_id", "dept_name", "description",
	"rec_url", "date_created", "date_modified", "user_rating", "tags", "rec_content",
}

// DefaultDepartmentID marks the general/student-facing department. Only records
// from this department are indexed for retrieval.
const DefaultDepartmentID = "0"

type Record struct {
	RecID        string `json:"rec_id"`
	UniID        string `json:"uni_id"`
	UniName      string `json:"uni_name"`
	DeptID       string `json:"dept_id"`
	DeptName     string `json:"dept_name"`
	Description  string `json:"description"`
	RecURL       string `json:"rec_url"`
	DateCreated  string `json:"date_created"`
	DateModified string `json:"date_modified"`
	UserRating   string `json:"user_rating"`
	Tags         string `json:"tags"`
	RecContent   string `json:"rec_content"`
}

// Dataset is one university's in-memory table of records.
type Dataset struct {
	Name    string   `json:"name"`
	Records []Record `json:"records"`
}

// IndexedDocument is one retrievable unit handed to the vector store:
// the embedded text plus the metadata the ask flow needs back.
type IndexedDocument struct {
	// DocKey is "{university}_{rowIndex}" - stable across re-population.
	DocKey      string
	Content     string
	RecURL      string
	RecID       string
	Description string
}

// Passage is one retrieved document returned by a nearest-neighbor query,
// in retrieval-rank order.
type Passage struct {
	Content     string
	RecURL      string
	RecID       string
	Description string
}
