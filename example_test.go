package subst_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/itsatony/go-subst"
)

func ExampleParse() {
	tmpl, err := subst.Parse("My name is ${firstName} ${lastName}")
	if err != nil {
		panic(err)
	}

	result, err := tmpl.Evaluate(map[string]string{
		"firstName": "Jan",
		"lastName":  "Kowalski",
	})
	if err != nil {
		panic(err)
	}
	fmt.Println(result)
	// Output: My name is Jan Kowalski
}

func ExampleTemplate_Evaluate_errors() {
	tmpl := subst.MustParse("My name is ${firstName} ${lastName}")

	_, err := tmpl.Evaluate(map[string]string{"firstName": "Jan"})
	fmt.Println(subst.IsMissingParameter(err))

	_, err = tmpl.Evaluate(map[string]string{"firstName": "Jan", "lastName": "@@"})
	fmt.Println(errors.Is(err, subst.ErrInvalidValue))

	param, _ := subst.ErrorMetadata(err, subst.MetaKeyParameter)
	fmt.Println(param)
	// Output:
	// true
	// true
	// lastName
}

func ExampleEngine_ExecuteTemplate() {
	ctx := context.Background()
	engine := subst.MustNew(subst.WithStorage(subst.NewMemoryStorage()))

	err := engine.SaveTemplate(ctx, &subst.StoredTemplate{
		Name:   "greeting",
		Source: "Hello ${who}",
	})
	if err != nil {
		panic(err)
	}

	result, err := engine.ExecuteTemplate(ctx, "greeting", map[string]string{"who": "World"})
	if err != nil {
		panic(err)
	}
	fmt.Println(result)
	// Output: Hello World
}

func ExampleParseCatalog() {
	catalog, err := subst.ParseCatalog([]byte(`
templates:
  - name: intro
    source: "I am ${name}"
`), subst.CatalogFormatYAML)
	if err != nil {
		panic(err)
	}

	engine := subst.MustNew()
	if err := engine.RegisterCatalog(catalog); err != nil {
		panic(err)
	}

	result, _ := engine.ExecuteTemplate(context.Background(), "intro", map[string]string{"name": "Jan"})
	fmt.Println(result)
	// Output: I am Jan
}
