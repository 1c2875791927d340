package services

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/Kariqs/amexan-storefront/apiclient"
	"github.com/Kariqs/amexan-storefront/errs"
	"github.com/Kariqs/amexan-storefront/identity"
	"github.com/Kariqs/amexan-storefront/models"
)

const msgAdminRequired = "admin access required"

// fields the backend owns and an edit form never changes
var readOnlyFields = []string{"id", "createdAt", "updatedAt"}

// Diff compares the JSON form of before and after and returns the fields
// whose value changed, keyed by their JSON name. A field present in before
// but dropped from after is reported as cleared, with the zero value of its
// JSON kind.
func Diff(before, after any, ignore ...string) (models.Patch, error) {
	b, err := toFields(before)
	if err != nil {
		return nil, fmt.Errorf("encoding original: %w", err)
	}
	a, err := toFields(after)
	if err != nil {
		return nil, fmt.Errorf("encoding edit: %w", err)
	}

	skip := make(map[string]bool, len(ignore))
	for _, f := range ignore {
		skip[f] = true
	}

	patch := models.Patch{}
	for field, value := range a {
		if skip[field] {
			continue
		}
		if old, ok := b[field]; ok && reflect.DeepEqual(old, value) {
			continue
		}
		patch[field] = value
	}
	for field, old := range b {
		if _, ok := a[field]; ok || skip[field] {
			continue
		}
		patch[field] = cleared(old)
	}
	return patch, nil
}

func cleared(old any) any {
	switch old.(type) {
	case string:
		return ""
	case float64:
		return float64(0)
	case bool:
		return false
	}
	return nil
}

func toFields(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

type AdminService struct {
	api PatchAPI
	log *zap.Logger
}

func NewAdminService(api PatchAPI, log *zap.Logger) *AdminService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminService{api: api, log: log.Named("admin")}
}

func (s *AdminService) UpdateCategory(ctx context.Context, id identity.Identity, categoryID models.ID, before, after models.Category) (bool, error) {
	return s.update(ctx, id, apiclient.ResourceCategory, categoryID, before, after)
}

func (s *AdminService) UpdateProduct(ctx context.Context, id identity.Identity, productID models.ID, before, after models.Product) (bool, error) {
	return s.update(ctx, id, apiclient.ResourceProduct, productID, before, after)
}

func (s *AdminService) UpdateUser(ctx context.Context, id identity.Identity, userID models.ID, before, after models.User) (bool, error) {
	return s.update(ctx, id, apiclient.ResourceUser, userID, before, after)
}

// update sends every changed field in one request. It reports false and
// sends nothing when the edit changed no field.
func (s *AdminService) update(ctx context.Context, id identity.Identity, resource string, resourceID models.ID, before, after any) (bool, error) {
	if err := id.Require(); err != nil {
		return false, err
	}
	if !id.IsAdmin {
		return false, errs.Authentication(msgAdminRequired)
	}

	patch, err := Diff(before, after, readOnlyFields...)
	if err != nil {
		return false, errs.Validation(err.Error())
	}
	if patch.IsEmpty() {
		return false, nil
	}

	if err := s.api.Patch(ctx, id, resource, resourceID, patch); err != nil {
		return false, err
	}

	fields := make([]string, 0, len(patch))
	for f := range patch {
		fields = append(fields, f)
	}
	s.log.Info("resource updated",
		zap.String("resource", resource),
		zap.Stringer("id", resourceID),
		zap.Strings("fields", fields),
		zap.Stringer("admin", id.UserID))
	return true, nil
}
