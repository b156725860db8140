// Package graph fetches the submission list and the user directory from a
// Microsoft Graph compatible REST endpoint.
package graph

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strconv"
    "strings"
    "time"

    "github.com/google/uuid"
    "golang.org/x/sync/errgroup"

    "pmsdash/internal/domain"
)

// Config selects the site and list to read.
type Config struct {
    BaseURL  string
    Token    string
    SitePath string
    ListName string
    ListID   string
    PageSize int
}

// Client implements ports.SnapshotSource.
type Client struct {
    cfg  Config
    http *http.Client
    now  func() time.Time
}

func New(cfg Config, hc *http.Client) *Client {
    if hc == nil {
        hc = &http.Client{Timeout: 30 * time.Second}
    }
    if cfg.PageSize <= 0 {
        cfg.PageSize = 999
    }
    cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
    return &Client{cfg: cfg, http: hc, now: time.Now}
}

// ListNotFoundError carries what the site offered so operators can fix the
// configured list name.
type ListNotFoundError struct {
    Wanted    string
    SiteID    string
    Available []domain.ListInfo
}

func (e *ListNotFoundError) Error() string {
    names := make([]string, len(e.Available))
    for i, l := range e.Available {
        names[i] = l.Name
    }
    return fmt.Sprintf("list %q not found on site %s; available lists: %s", e.Wanted, e.SiteID, strings.Join(names, ", "))
}

// Fetch reads the directory and the list items concurrently.
func (c *Client) Fetch(ctx context.Context) (domain.Snapshot, error) {
    var (
        users []domain.DirectoryUser
        subs  []domain.Submission
        diag  = domain.SourceDiagnostics{Source: "graph"}
    )
    g, gctx := errgroup.WithContext(ctx)
    g.Go(func() error {
        var err error
        users, err = c.fetchUsers(gctx)
        if err != nil {
            return fmt.Errorf("directory: %w", err)
        }
        return nil
    })
    g.Go(func() error {
        var err error
        subs, err = c.fetchSubmissions(gctx, &diag)
        if err != nil {
            return fmt.Errorf("submissions: %w", err)
        }
        return nil
    })
    if err := g.Wait(); err != nil {
        return domain.Snapshot{}, err
    }
    return domain.Snapshot{
        ID:          uuid.NewString(),
        FetchedAt:   c.now().UTC(),
        Submissions: subs,
        Directory:   users,
        Source:      diag,
    }, nil
}

type page[T any] struct {
    Value    []T    `json:"value"`
    NextLink string `json:"@odata.nextLink"`
}

type graphUser struct {
    ID                string `json:"id"`
    DisplayName       string `json:"displayName"`
    Mail              string `json:"mail"`
    UserPrincipalName string `json:"userPrincipalName"`
    Department        string `json:"department"`
    JobTitle          string `json:"jobTitle"`
    AccountEnabled    *bool  `json:"accountEnabled"`
}

func (c *Client) fetchUsers(ctx context.Context) ([]domain.DirectoryUser, error) {
    q := url.Values{}
    q.Set("$select", "id,displayName,mail,userPrincipalName,department,jobTitle,accountEnabled")
    q.Set("$filter", "accountEnabled eq true")
    q.Set("$top", strconv.Itoa(c.cfg.PageSize))
    raw, err := getAll[graphUser](ctx, c, c.cfg.BaseURL+"/users?"+q.Encode())
    if err != nil {
        return nil, err
    }
    out := make([]domain.DirectoryUser, 0, len(raw))
    for _, u := range raw {
        // The filter is applied server side; accounts reported as disabled
        // are still dropped here.
        if u.AccountEnabled != nil && !*u.AccountEnabled {
            continue
        }
        out = append(out, domain.DirectoryUser{
            ID:                u.ID,
            DisplayName:       u.DisplayName,
            Mail:              u.Mail,
            UserPrincipalName: u.UserPrincipalName,
            Department:        u.Department,
            JobTitle:          u.JobTitle,
            AccountEnabled:    true,
        })
    }
    return out, nil
}

type graphList struct {
    ID          string `json:"id"`
    DisplayName string `json:"displayName"`
}

type graphItem struct {
    ID              string `json:"id"`
    CreatedDateTime string `json:"createdDateTime"`
    CreatedBy       struct {
        User *struct {
            ID                string `json:"id"`
            DisplayName       string `json:"displayName"`
            Email             string `json:"email"`
            Mail              string `json:"mail"`
            UserPrincipalName string `json:"userPrincipalName"`
        } `json:"user"`
    } `json:"createdBy"`
    Fields struct {
        ApprovalStatus string             `json:"ApprovalStatus"`
        Author         domain.AuthorField `json:"Author"`
        CreatedBy      domain.AuthorField `json:"Created_x0020_By"`
    } `json:"fields"`
}

func (c *Client) fetchSubmissions(ctx context.Context, diag *domain.SourceDiagnostics) ([]domain.Submission, error) {
    var site struct {
        ID string `json:"id"`
    }
    if err := c.getJSON(ctx, c.cfg.BaseURL+"/sites/"+c.cfg.SitePath, &site); err != nil {
        return nil, fmt.Errorf("site: %w", err)
    }
    diag.SiteID = site.ID

    lists, err := getAll[graphList](ctx, c, c.cfg.BaseURL+"/sites/"+url.PathEscape(site.ID)+"/lists")
    if err != nil {
        return nil, fmt.Errorf("lists: %w", err)
    }
    for _, l := range lists {
        diag.AvailableLists = append(diag.AvailableLists, domain.ListInfo{ID: l.ID, Name: l.DisplayName})
    }
    target, ok := SelectList(diag.AvailableLists, c.cfg.ListName, c.cfg.ListID)
    if !ok {
        return nil, &ListNotFoundError{Wanted: c.cfg.ListName, SiteID: site.ID, Available: diag.AvailableLists}
    }
    diag.SelectedList = &target

    q := url.Values{}
    q.Set("expand", "fields")
    q.Set("$select", "id,createdDateTime,createdBy,fields")
    q.Set("$top", strconv.Itoa(c.cfg.PageSize))
    items, err := getAll[graphItem](ctx, c, c.cfg.BaseURL+"/sites/"+url.PathEscape(site.ID)+"/lists/"+url.PathEscape(target.ID)+"/items?"+q.Encode())
    if err != nil {
        return nil, fmt.Errorf("items: %w", err)
    }
    out := make([]domain.Submission, 0, len(items))
    for _, it := range items {
        s := domain.Submission{
            ID:             it.ID,
            CreatedAt:      it.CreatedDateTime,
            Author:         it.Fields.Author,
            CreatedByField: it.Fields.CreatedBy,
            ApprovalState:  it.Fields.ApprovalStatus,
        }
        if u := it.CreatedBy.User; u != nil {
            mail := u.Mail
            if mail == "" {
                mail = u.Email
            }
            s.CreatedBy = &domain.UserRef{ID: u.ID, DisplayName: u.DisplayName, Mail: mail, UserPrincipalName: u.UserPrincipalName}
        }
        out = append(out, s)
    }
    return out, nil
}

// SelectList picks the submission list: an exact name match, then any list
// whose name contains a word of the wanted name, then the configured id.
func SelectList(lists []domain.ListInfo, name, id string) (domain.ListInfo, bool) {
    for _, l := range lists {
        if l.Name == name {
            return l, true
        }
    }
    for _, word := range strings.Fields(name) {
        if len(word) < 4 || strings.EqualFold(word, "list") {
            continue
        }
        for _, l := range lists {
            if strings.Contains(l.Name, word) {
                return l, true
            }
        }
    }
    if id != "" {
        for _, l := range lists {
            if l.ID == id {
                return l, true
            }
        }
    }
    return domain.ListInfo{}, false
}

func getAll[T any](ctx context.Context, c *Client, next string) ([]T, error) {
    var out []T
    for next != "" {
        var p page[T]
        if err := c.getJSON(ctx, next, &p); err != nil {
            return nil, err
        }
        out = append(out, p.Value...)
        next = p.NextLink
    }
    return out, nil
}

// ErrUnauthorized is returned when the token is rejected.
var ErrUnauthorized = errors.New("graph: unauthorized")

func (c *Client) getJSON(ctx context.Context, u string, dst any) error {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
    if err != nil {
        return err
    }
    req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
    req.Header.Set("Accept", "application/json")
    resp, err := c.http.Do(req)
    if err != nil {
        return err
    }
    defer resp.Body.Close()
    if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
        return ErrUnauthorized
    }
    if resp.StatusCode != http.StatusOK {
        body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
        return fmt.Errorf("GET %s: %s: %s", req.URL.Path, resp.Status, strings.TrimSpace(string(body)))
    }
    return json.NewDecoder(resp.Body).Decode(dst)
}
