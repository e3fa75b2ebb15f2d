package openapi_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-formflow/pkg/openapi"
	"github.com/goliatone/go-formflow/pkg/schema"
)

const petStoreDoc = `{
  "openapi": "3.0.3",
  "info": {"title": "Accounts", "version": "1.0.0"},
  "paths": {
    "/accounts": {
      "post": {
        "operationId": "createAccount",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email", "displayName"],
                "properties": {
                  "displayName": {
                    "type": "string",
                    "title": "Display Name",
                    "minLength": 2,
                    "maxLength": 40
                  },
                  "email": {"type": "string", "format": "email"},
                  "age": {"type": "integer"},
                  "plan": {"type": "string", "enum": ["starter", "pro"]},
                  "newsletter": {"type": "boolean"},
                  "referral": {"type": "string", "pattern": "^REF-[0-9]+$"},
                  "address": {
                    "type": "object",
                    "title": "Billing Address",
                    "properties": {
                      "street": {"type": "string"},
                      "city": {"type": "string"}
                    }
                  },
                  "tags": {"type": "array", "items": {"type": "string"}}
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    }
  }
}`

func fieldByName(t *testing.T, fields []schema.Field, name string) schema.Field {
	t.Helper()
	for _, field := range fields {
		if field.Name == name {
			return field
		}
	}
	t.Fatalf("field %q not found in %v", name, fields)
	return schema.Field{}
}

func TestConvert(t *testing.T) {
	t.Parallel()

	sch, err := openapi.New().Convert(context.Background(), []byte(petStoreDoc), "createAccount")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	// Required properties sort first; arrays are dropped.
	if len(sch.Fields) != 7 {
		t.Fatalf("expected 7 fields, got %d: %+v", len(sch.Fields), sch.Fields)
	}
	if sch.Fields[0].Name != "displayName" || sch.Fields[1].Name != "email" {
		t.Fatalf("required fields should sort first: %s, %s", sch.Fields[0].Name, sch.Fields[1].Name)
	}

	display := fieldByName(t, sch.Fields, "displayName")
	if display.Type != schema.FieldTypeText || display.Label != "Display Name" {
		t.Fatalf("displayName: %+v", display)
	}
	if display.Validation == nil || !display.Validation.Required.Value {
		t.Fatalf("displayName should be required: %+v", display.Validation)
	}
	if display.Validation.MinLength.Value != 2 || display.Validation.MaxLength.Value != 40 {
		t.Fatalf("length bounds missing: %+v", display.Validation)
	}

	email := fieldByName(t, sch.Fields, "email")
	if email.Validation == nil || email.Validation.CustomValidation != "email" {
		t.Fatalf("email format should map to the email preset: %+v", email.Validation)
	}

	age := fieldByName(t, sch.Fields, "age")
	if age.Validation == nil || age.Validation.CustomValidation != "number" {
		t.Fatalf("integer should map to the number preset: %+v", age.Validation)
	}

	plan := fieldByName(t, sch.Fields, "plan")
	if plan.Type != schema.FieldTypeDropdown || len(plan.Options) != 2 {
		t.Fatalf("enum should map to a dropdown: %+v", plan)
	}
	if plan.Options[0].Label != "starter" || plan.Options[0].Value != "starter" {
		t.Fatalf("enum options: %+v", plan.Options)
	}

	newsletter := fieldByName(t, sch.Fields, "newsletter")
	if newsletter.Type != schema.FieldTypeCheckbox {
		t.Fatalf("boolean should map to a checkbox: %+v", newsletter)
	}

	referral := fieldByName(t, sch.Fields, "referral")
	if referral.Validation == nil || referral.Validation.Regex == nil || referral.Validation.Regex.Value != "^REF-[0-9]+$" {
		t.Fatalf("pattern should map to a regex rule: %+v", referral.Validation)
	}

	var group schema.Field
	for _, field := range sch.Fields {
		if field.Type.IsGroup() {
			group = field
		}
	}
	if group.Label != "Billing Address" || len(group.Fields) != 2 {
		t.Fatalf("nested object should map to a group: %+v", group)
	}
	if schema.GroupKey(group.Label) != "billingAddress" {
		t.Fatalf("group key: %q", schema.GroupKey(group.Label))
	}
}

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	converter := openapi.New()

	if _, err := converter.Convert(ctx, nil, "createAccount"); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if _, err := converter.Convert(ctx, []byte(petStoreDoc), ""); err == nil {
		t.Fatal("expected error for empty operation id")
	}

	_, err := converter.Convert(ctx, []byte(petStoreDoc), "deleteAccount")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestConvert_TitleFromName(t *testing.T) {
	t.Parallel()

	doc := `{
	  "openapi": "3.0.3",
	  "info": {"title": "t", "version": "1"},
	  "paths": {
	    "/x": {
	      "post": {
	        "operationId": "op",
	        "requestBody": {
	          "content": {
	            "application/json": {
	              "schema": {
	                "type": "object",
	                "properties": {
	                  "firstName": {"type": "string"},
	                  "zip_code": {"type": "string"}
	                }
	              }
	            }
	          }
	        },
	        "responses": {"200": {"description": "ok"}}
	      }
	    }
	  }
	}`

	sch, err := openapi.New().Convert(context.Background(), []byte(doc), "op")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got := fieldByName(t, sch.Fields, "firstName").Label; got != "First Name" {
		t.Fatalf("camelCase label: %q", got)
	}
	if got := fieldByName(t, sch.Fields, "zip_code").Label; got != "Zip code" {
		t.Fatalf("snake_case label: %q", got)
	}
}
