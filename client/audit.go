package client

import (
	"context"
	"net/url"
	"strconv"
)

// AuditService queries the audit trail.
type AuditService struct {
	c *Client
}

// Search returns one page of audit records matching opts.
func (s *AuditService) Search(ctx context.Context, opts *AuditSearchOptions) (*AuditPage, error) {
	var page AuditPage
	if err := s.c.get(ctx, "/api/v1/auditLog", opts.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a single audit record.
func (s *AuditService) Get(ctx context.Context, id string) (*AuditRecord, error) {
	var rec AuditRecord
	if err := s.c.get(ctx, "/api/v1/auditLog/"+url.PathEscape(id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (o *AuditSearchOptions) values() url.Values {
	params := url.Values{}
	if o == nil {
		return params
	}

	set := func(k, v string) {
		if v != "" {
			params.Set(k, v)
		}
	}

	set("startDate", o.StartDate)
	set("endDate", o.EndDate)
	set("action", o.Action)
	set("targetModel", o.TargetModel)
	set("targetId", o.Target)
	set("operatorId", o.OperatorID)
	set("quickSearch", o.QuickSearch)
	set("sortBy", o.SortBy)
	set("sortOrder", o.SortOrder)
	if o.Page > 0 {
		params.Set("page", strconv.Itoa(o.Page))
	}
	if o.ItemsPerPage > 0 {
		params.Set("itemsPerPage", strconv.Itoa(o.ItemsPerPage))
	}
	return params
}
