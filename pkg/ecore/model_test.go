package ecore_test

import (
	"github.com/mandelsoft/dynemf/pkg/ecore"
)

// company is a small metamodel used by the tests.
type company struct {
	pkg *ecore.Package

	named    *ecore.Class
	person   *ecore.Class
	manager  *ecore.Class
	company  *ecore.Class
	category *ecore.Enum

	name      *ecore.Attribute
	age       *ecore.Attribute
	nicknames *ecore.Attribute
	kind      *ecore.Attribute

	employees *ecore.Reference
	employer  *ecore.Reference
	friends   *ecore.Reference
	boss      *ecore.Reference
	staff     *ecore.Reference
	ceo       *ecore.Reference
}

func newCompany() *company {
	m := &company{}
	m.pkg = ecore.NewPackage("company", "http://test/company", "comp")
	m.category = m.pkg.NewEnum("Category").AddLiteral("Small", 0).AddLiteral("Large", 1)

	m.named = m.pkg.NewClass("Named").SetAbstract(true)
	m.name = m.named.NewAttribute("name", ecore.EString)

	m.person = m.pkg.NewClass("Person", m.named)
	m.age = m.person.NewAttribute("age", ecore.EInt).Default("18")
	m.nicknames = m.person.NewAttribute("nicknames", ecore.EString).Many()
	m.friends = m.person.NewReference("friends", m.person).Many()
	m.employer = m.person.NewReference("employer", nil)
	m.boss = m.person.NewReference("boss", nil)

	m.manager = m.pkg.NewClass("Manager", m.person)
	m.staff = m.manager.NewReference("staff", m.person).Many()
	ecore.SetOpposite(m.boss, m.staff)
	m.boss.SetEType(m.manager)

	m.company = m.pkg.NewClass("Company", m.named)
	m.kind = m.company.NewAttribute("kind", m.category)
	m.employees = m.company.NewReference("employees", m.person).Many().Containment()
	m.ceo = m.company.NewReference("ceo", m.manager).Containment()
	m.employer.SetEType(m.company)
	ecore.SetOpposite(m.employees, m.employer)
	return m
}

func (m *company) create(c *ecore.Class, name string) ecore.Object {
	o, err := m.pkg.Factory().Create(c)
	if err != nil {
		panic(err)
	}
	if name != "" {
		if err := o.ESet(m.name, name); err != nil {
			panic(err)
		}
	}
	return o
}
