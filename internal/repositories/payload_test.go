package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/records"
)

func testResource() *Resource {
	return &Resource{
		Name:  "brand",
		Table: "brands",
		Columns: []Column{
			{Name: "id"},
			{Name: "name", Writable: true, Updatable: true},
			{Name: "email", Writable: true},
			{Name: "created"},
			{Name: "owner"},
		},
		CreateKeys:    []string{"name", "email"},
		OverrideKey:   "email",
		OverrideValue: func(id auth.Identity) string { return id.Email },
		OwnerColumn:   "owner",
	}
}

func TestValidateCreatePayload(t *testing.T) {
	res := testResource()

	tests := []struct {
		name     string
		payload  Payload
		identity *auth.Identity
		wantErr  bool
		want     Payload
	}{
		{
			name:    "exact keys",
			payload: Payload{"name": "Acme", "email": "a@x.io"},
			want:    Payload{"name": "Acme", "email": "a@x.io"},
		},
		{
			name:     "override from identity",
			payload:  Payload{"name": "Acme"},
			identity: &auth.Identity{Subject: "u1", Email: "id@x.io"},
			want:     Payload{"name": "Acme", "email": "id@x.io"},
		},
		{
			name:     "payload value wins over identity",
			payload:  Payload{"name": "Acme", "email": "a@x.io"},
			identity: &auth.Identity{Subject: "u1", Email: "id@x.io"},
			want:     Payload{"name": "Acme", "email": "a@x.io"},
		},
		{
			name:     "override missing and identity has no email",
			payload:  Payload{"name": "Acme"},
			identity: &auth.Identity{Subject: "u1"},
			wantErr:  true,
		},
		{
			name:    "unexpected key",
			payload: Payload{"name": "Acme", "email": "a@x.io", "bio": ""},
			wantErr: true,
		},
		{
			name:    "missing key",
			payload: Payload{"email": "a@x.io"},
			wantErr: true,
		},
		{
			name:    "nested value",
			payload: Payload{"name": map[string]any{"x": 1}, "email": "a@x.io"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateCreatePayload(res, tt.payload, tt.identity)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateCreatePayload_ReportsKeys(t *testing.T) {
	_, err := ValidateCreatePayload(testResource(), Payload{"email": "a@x.io", "zip": 1}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing keys: name")
	assert.Contains(t, err.Error(), "unexpected keys: zip")
}

func TestValidateUpdatePayload(t *testing.T) {
	res := testResource()

	assert.NoError(t, ValidateUpdatePayload(res, Payload{"name": "x"}))
	assert.ErrorIs(t, ValidateUpdatePayload(res, Payload{}), ErrInvalidPayload)
	assert.ErrorIs(t, ValidateUpdatePayload(res, Payload{"email": "x"}), ErrInvalidPayload)
	assert.ErrorIs(t, ValidateUpdatePayload(res, Payload{"nope": "x"}), ErrInvalidPayload)
}

func TestResource_SelectMatchesColumnSpec(t *testing.T) {
	res := &Resource{
		Name:  "product",
		Table: "products",
		Columns: []Column{
			{Name: "id"},
			{Name: "brand_id"},
			{Name: "brand_name", Join: &Join{Table: "brands", LocalKey: "brand_id", Column: "name"}},
			{Name: "created"},
		},
		Nests: []records.Nest{{Key: "brand", Fields: []records.NestField{{From: "brand_name", To: "name"}}}},
	}
	require.NoError(t, res.Validate())

	assert.Equal(t, "t.id, t.brand_id, j1.name AS brand_name, t.created", res.SelectList())
	assert.Equal(t, "products t LEFT JOIN brands j1 ON j1.id = t.brand_id", res.From())
	assert.Equal(t, []string{"id", "brand_id", "brand_name", "created"}, res.ColumnSpec().Columns)
	assert.Equal(t, "j1.name", res.ColumnExpr("brand_name"))
}

func TestResource_RegisteredSpec(t *testing.T) {
	res := testResource()

	_, err := res.RegisteredSpec(nil)
	assert.Error(t, err)

	reg := records.NewRegistry()
	_, err = res.RegisteredSpec(reg)
	assert.ErrorIs(t, err, records.ErrUnregistered)

	require.NoError(t, reg.Register(records.ColumnSpec{Resource: "brand", Columns: []string{"id", "email", "name", "created", "owner"}}))
	_, err = res.RegisteredSpec(reg)
	assert.ErrorContains(t, err, "registered column 1")

	reg = records.NewRegistry()
	require.NoError(t, reg.Register(res.ColumnSpec()))
	spec, err := res.RegisteredSpec(reg)
	require.NoError(t, err)
	assert.Equal(t, res.ColumnNames(), spec.Columns)
}

func TestResource_Validate(t *testing.T) {
	res := testResource()
	require.NoError(t, res.Validate())

	res.OwnerColumn = "missing"
	assert.Error(t, res.Validate())

	res = testResource()
	res.Columns = res.Columns[1:]
	assert.Error(t, res.Validate())
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("get", "brand", NewID()))
	assert.ErrorIs(t, ValidateID("get", "brand", ""), ErrInvalidID)
	assert.ErrorIs(t, ValidateID("get", "brand", "123"), ErrInvalidID)
}

func TestErrorHelpers(t *testing.T) {
	err := NotFoundError("brand", "x")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsClientError(err))

	assert.True(t, IsClientError(DuplicateAssociationError("brand", "u1")))
	assert.True(t, IsClientError(PayloadError("create", "brand", "bad")))
	assert.True(t, IsClientError(InvalidIDError("get", "brand", "x")))
}
