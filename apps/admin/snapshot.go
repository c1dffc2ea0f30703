package main

import (
	"fmt"
	"io/ioutil"
)

func (cli *commandLine) export(path string) error {
	data, err := cli.store.ExportSnapshot()
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0600)
}

func (cli *commandLine) doImport(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	return cli.store.ImportSnapshot(data)
}

func (cli *commandLine) info() error {
	p := cli.store.Profile()
	fmt.Printf("Teacher:    %s\n", p.TeacherName)
	fmt.Printf("Registered: %t\n", p.IsRegistered)
	fmt.Printf("Logged in:  %t\n", p.IsLoggedIn)
	schools, classes, students, records := cli.store.Totals()
	fmt.Printf("Schools:    %d\n", schools)
	fmt.Printf("Classes:    %d\n", classes)
	fmt.Printf("Students:   %d\n", students)
	fmt.Printf("Records:    %d\n", records)
	if sch, ok := cli.store.CurrentSchool(); ok {
		fmt.Printf("Selected:   %s\n", sch.Name)
	}
	return nil
}
