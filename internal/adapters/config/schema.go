package config

import "gopkg.in/yaml.v3"

// Programfile represents the structure of a program declaration file.
type Programfile struct {
	Package string      `yaml:"package"`
	Classes []yaml.Node `yaml:"classes"`
}

// ClassDTO represents a class declaration in a program file.
type ClassDTO struct {
	Name       string   `yaml:"name"`
	Params     []string `yaml:"params"`
	Extends    string   `yaml:"extends"`
	Implements []string `yaml:"implements"`
	Interface  bool     `yaml:"interface"`
}
